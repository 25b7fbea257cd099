package memory

import (
	"context"
	"fmt"
	"time"

	chromem "github.com/philippgille/chromem-go"
	"github.com/google/uuid"
)

const dayFormat = "2006-01-02"

// Config holds long-term memory configuration
type Config struct {
	// PersistPath is the chromem database file. Empty means in-memory.
	PersistPath string

	// Collection is the chromem collection name
	// Default: "org_memory"
	Collection string

	// RetentionDays is how long memories are kept before maintenance
	// removes them
	// Default: 30
	RetentionDays int

	// EmbeddingFunc generates embeddings for stored memories. When nil,
	// chromem's default (OpenAI, OPENAI_API_KEY env) is used.
	EmbeddingFunc chromem.EmbeddingFunc
}

// DefaultConfig returns default memory configuration
func DefaultConfig() *Config {
	return &Config{
		Collection:    "org_memory",
		RetentionDays: 30,
	}
}

// Maintainer owns the organization's long-term memory store and its
// periodic upkeep. Memories are bucketed by calendar day so maintenance
// can drop whole days past the retention horizon.
type Maintainer struct {
	db         *chromem.DB
	collection *chromem.Collection
	retention  int
}

// NewMaintainer creates the memory subsystem
func NewMaintainer(cfg *Config) (*Maintainer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Collection == "" {
		cfg.Collection = "org_memory"
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}

	var db *chromem.DB
	var err error
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open memory db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, cfg.EmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory collection: %w", err)
	}

	return &Maintainer{
		db:         db,
		collection: collection,
		retention:  cfg.RetentionDays,
	}, nil
}

// Store records a memory attributed to an actor
func (m *Maintainer) Store(ctx context.Context, actorID, content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	now := time.Now().UTC()
	err := m.collection.AddDocument(ctx, chromem.Document{
		ID:      "mem-" + uuid.NewString(),
		Content: content,
		Metadata: map[string]string{
			"actor": actorID,
			"day":   now.Format(dayFormat),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store memory: %w", err)
	}
	return nil
}

// Recall returns the most similar memories to the query
func (m *Maintainer) Recall(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := m.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory: %w", err)
	}

	contents := make([]string, 0, len(results))
	for _, r := range results {
		contents = append(contents, r.Content)
	}
	return contents, nil
}

// Maintain removes day buckets past the retention horizon. The scan
// window is bounded (60 days past the horizon) so upkeep never needs a
// full listing of the collection.
func (m *Maintainer) Maintain(ctx context.Context, now time.Time) error {
	horizon := now.UTC().AddDate(0, 0, -m.retention)
	for i := 0; i < 60; i++ {
		day := horizon.AddDate(0, 0, -i).Format(dayFormat)
		if err := m.collection.Delete(ctx, map[string]string{"day": day}, nil); err != nil {
			return fmt.Errorf("failed to prune memories for %s: %w", day, err)
		}
	}
	return nil
}

// Count returns the number of stored memories
func (m *Maintainer) Count() int {
	return m.collection.Count()
}
