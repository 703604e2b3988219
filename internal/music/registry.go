package music

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider marks a generation request naming a provider id that
// is not registered. This is a caller error, not a provider failure.
var ErrUnknownProvider = errors.New("unknown provider")

// Credentials holds the per-provider API keys read from configuration
type Credentials struct {
	SunoAPIKey       string
	BeatovenAPIKey   string
	ElevenLabsAPIKey string
}

// Registry is a frozen mapping from provider identifier to adapter,
// constructed once at startup and injected wherever generation runs.
type Registry struct {
	providers map[string]Provider
	enabled   map[string]bool
}

// NewRegistry builds the registry. Every known adapter is registered so a
// request may target it; "enabled" tracks which ones hold a credential and
// drives the provider catalog.
func NewRegistry(creds Credentials) *Registry {
	return &Registry{
		providers: map[string]Provider{
			ProviderSuno:       NewSunoProvider(creds.SunoAPIKey),
			ProviderBeatoven:   NewBeatovenProvider(creds.BeatovenAPIKey),
			ProviderElevenLabs: NewElevenLabsProvider(creds.ElevenLabsAPIKey),
			ProviderDemo:       NewDemoProvider(),
		},
		enabled: map[string]bool{
			ProviderSuno:       creds.SunoAPIKey != "",
			ProviderBeatoven:   creds.BeatovenAPIKey != "",
			ProviderElevenLabs: creds.ElevenLabsAPIKey != "",
			ProviderDemo:       true,
		},
	}
}

// Get returns the adapter for the given identifier
func (r *Registry) Get(id string) (Provider, error) {
	provider, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return provider, nil
}

// Enabled reports whether the provider has a credential configured
func (r *Registry) Enabled(id string) bool {
	return r.enabled[id]
}

// IDs returns all registered provider identifiers, sorted
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
