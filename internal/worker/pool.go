// Package worker provides background processing for analysis and
// generation jobs.
package worker

import (
	"context"
	"sync"

	"github.com/drawtunes/drawtunes-api/internal/logger"
)

// Job is one unit of background work. Name identifies the job kind in
// logs; Run executes it.
type Job struct {
	Name string
	Run  func(ctx context.Context)
}

// Pool manages background workers for async jobs. Jobs carry their own
// context so a pool shutdown does not cancel in-flight work.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size
func NewPool(queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. A full queue drops the job with a
// warning rather than stalling the request path.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		logger.Warn("Worker queue full, dropping job", logger.Fields{
			"job": job.Name,
		})
		return false
	}
}

func (p *Pool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker job panicked", nil, logger.Fields{
				"job":   job.Name,
				"panic": r,
			})
		}
	}()
	job.Run(context.Background())
}
