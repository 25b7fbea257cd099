package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// Provider is a configured LLM backend that can be probed for
// reachability. Probes are cheap metadata calls, never completions.
type Provider interface {
	// Name returns the unique identifier for this provider
	Name() string

	// Probe checks reachability. A nil error means the provider is
	// available.
	Probe(ctx context.Context) error
}

// ProbeResult is the outcome of probing one provider
type ProbeResult struct {
	Provider  string
	Available bool
	Err       error
	Latency   time.Duration
}

// Registry holds the configured providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider

	// probeSem bounds concurrent probes so a pass never bursts
	// simultaneous calls at every configured backend
	probeSem *semaphore.Weighted

	// probeTimeout applies per provider
	probeTimeout time.Duration
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers:    make(map[string]Provider),
		probeSem:     semaphore.NewWeighted(2),
		probeTimeout: 10 * time.Second,
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.providers[name] = p
	return nil
}

// Names returns all registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProbeAll probes every registered provider and returns results sorted by
// provider name. At most two probes run concurrently.
func (r *Registry) ProbeAll(ctx context.Context) []ProbeResult {
	r.mu.RLock()
	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	r.mu.RUnlock()

	results := make([]ProbeResult, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		if err := r.probeSem.Acquire(ctx, 1); err != nil {
			results[i] = ProbeResult{Provider: p.Name(), Available: false, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			defer r.probeSem.Release(1)

			probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
			defer cancel()

			start := time.Now()
			err := p.Probe(probeCtx)
			results[i] = ProbeResult{
				Provider:  p.Name(),
				Available: err == nil,
				Err:       err,
				Latency:   time.Since(start),
			}
		}(i, p)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Provider < results[j].Provider })
	return results
}

// AnthropicProvider probes the Anthropic API
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a provider backed by the Anthropic API
func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
	}, nil
}

// Name returns "anthropic"
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Probe lists available models as a cheap reachability check
func (p *AnthropicProvider) Probe(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("anthropic probe failed: %w", err)
	}
	return nil
}

// OpenAIProvider probes the OpenAI API
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider creates a provider backed by the OpenAI API
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	return &OpenAIProvider{
		client: openai.NewClient(openaioption.WithAPIKey(apiKey)),
	}, nil
}

// Name returns "openai"
func (p *OpenAIProvider) Name() string { return "openai" }

// Probe lists available models as a cheap reachability check
func (p *OpenAIProvider) Probe(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai probe failed: %w", err)
	}
	return nil
}
