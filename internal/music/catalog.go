package music

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	catalogCacheKey = "providers"
	catalogCacheTTL = 5 * time.Minute
)

// ProviderInfo describes one catalog entry
type ProviderInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	MaxDuration int      `json:"max_duration"`
}

// Catalog lists the providers available to generation requests: every
// provider holding a credential, plus the always-present demo entry.
type Catalog struct {
	registry *Registry
	cache    *gocache.Cache
}

// NewCatalog creates a catalog over the given registry
func NewCatalog(registry *Registry) *Catalog {
	return &Catalog{
		registry: registry,
		cache:    gocache.New(catalogCacheTTL, catalogCacheTTL),
	}
}

// Providers returns the available provider listing
func (c *Catalog) Providers() []ProviderInfo {
	if cached, found := c.cache.Get(catalogCacheKey); found {
		return cached.([]ProviderInfo)
	}

	var providers []ProviderInfo

	if c.registry.Enabled(ProviderSuno) {
		providers = append(providers, ProviderInfo{
			ID:          ProviderSuno,
			Name:        "Suno AI",
			Description: "High-quality AI music generation",
			Features:    []string{"vocals", "instrumental", "multiple genres"},
			MaxDuration: 300,
		})
	}

	if c.registry.Enabled(ProviderBeatoven) {
		providers = append(providers, ProviderInfo{
			ID:          ProviderBeatoven,
			Name:        "Beatoven",
			Description: "Professional music generation for content creators",
			Features:    []string{"royalty-free", "multiple moods", "customizable"},
			MaxDuration: 180,
		})
	}

	if c.registry.Enabled(ProviderElevenLabs) {
		providers = append(providers, ProviderInfo{
			ID:          ProviderElevenLabs,
			Name:        "ElevenLabs",
			Description: "AI voice and audio generation",
			Features:    []string{"voice synthesis", "audio processing"},
			MaxDuration: 120,
		})
	}

	// Demo mode is always available
	providers = append(providers, ProviderInfo{
		ID:          ProviderDemo,
		Name:        "Demo Mode",
		Description: "Demo music generation for testing",
		Features:    []string{"instant generation", "no API key required"},
		MaxDuration: 45,
	})

	c.cache.Set(catalogCacheKey, providers, gocache.DefaultExpiration)
	return providers
}
