package directory

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"agentorg/internal/types"
)

// Directory is the in-process actor directory. Actors are seeded from a
// YAML roster and mutated by the HR subsystems; the patrol only reads.
type Directory struct {
	mu     sync.RWMutex
	actors map[string]*types.Actor
}

// rosterFile models the on-disk roster.yaml schema
type rosterFile struct {
	Actors []rosterEntry `yaml:"actors"`
}

type rosterEntry struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Role     string  `yaml:"role"`
	Status   string  `yaml:"status,omitempty"`
	Salary   float64 `yaml:"salary,omitempty"`
	Manager  string  `yaml:"manager,omitempty"`
	Announce bool    `yaml:"announce,omitempty"`
}

// New creates an empty directory
func New() *Directory {
	return &Directory{actors: make(map[string]*types.Actor)}
}

// LoadRoster reads and validates a roster YAML file and returns a
// directory seeded with its actors.
func LoadRoster(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}

	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("directory: parse %s: %w", path, err)
	}

	dir := New()
	for i, entry := range roster.Actors {
		status := types.ActorStatus(entry.Status)
		if entry.Status == "" {
			status = types.ActorActive
		}
		actor := &types.Actor{
			ID:       entry.ID,
			Name:     entry.Name,
			Role:     entry.Role,
			Status:   status,
			Salary:   entry.Salary,
			Manager:  entry.Manager,
			Announce: entry.Announce,
			HiredAt:  time.Now().UTC(),
		}
		if actor.ID == "" {
			return nil, fmt.Errorf("directory: roster entry %d has no id", i)
		}
		if err := actor.Validate(); err != nil {
			return nil, fmt.Errorf("directory: roster entry %q: %w", actor.ID, err)
		}
		dir.actors[actor.ID] = actor
	}
	return dir, nil
}

// Get returns the actor with the given ID, or nil if unknown
func (d *Directory) Get(id string) *types.Actor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	actor, ok := d.actors[id]
	if !ok {
		return nil
	}
	copied := *actor
	return &copied
}

// List returns all actors, sorted by ID for deterministic iteration
func (d *Directory) List() []*types.Actor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	actors := make([]*types.Actor, 0, len(d.actors))
	for _, actor := range d.actors {
		copied := *actor
		actors = append(actors, &copied)
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i].ID < actors[j].ID })
	return actors
}

// ListActive returns all actors in active status, sorted by ID
func (d *Directory) ListActive() []*types.Actor {
	var active []*types.Actor
	for _, actor := range d.List() {
		if actor.IsActive() {
			active = append(active, actor)
		}
	}
	return active
}

// Announcer returns the designated announcer actor, or nil when the
// roster declares none.
func (d *Directory) Announcer() *types.Actor {
	for _, actor := range d.List() {
		if actor.Announce {
			return actor
		}
	}
	return nil
}

// Add registers a new actor
func (d *Directory) Add(actor *types.Actor) error {
	if err := actor.Validate(); err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	if actor.ID == "" {
		return fmt.Errorf("directory: actor id is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.actors[actor.ID]; exists {
		return fmt.Errorf("directory: actor %q already exists", actor.ID)
	}
	copied := *actor
	d.actors[actor.ID] = &copied
	return nil
}

// SetStatus changes an actor's employment status
func (d *Directory) SetStatus(id string, status types.ActorStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("directory: invalid status %q", status)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	actor, ok := d.actors[id]
	if !ok {
		return fmt.Errorf("directory: actor %q not found", id)
	}
	actor.Status = status
	if status == types.ActorTerminated && actor.LeftAt == nil {
		now := time.Now().UTC()
		actor.LeftAt = &now
	}
	return nil
}
