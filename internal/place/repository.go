//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

package place

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the persistence contract consumed by the use-cases.
// Any store satisfying it can back the service.
type Repository interface {
	// Save inserts a new place and returns the stored version.
	Save(ctx context.Context, p *Place) (*Place, error)

	// FindByID returns the place with the given id, or (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*Place, error)

	// FindAll returns every place in insertion order.
	FindAll(ctx context.Context) ([]*Place, error)

	// Update overwrites the place stored under id. Returns ErrNotFound if absent.
	Update(ctx context.Context, id string, p *Place) (*Place, error)

	// Delete removes the place stored under id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	places map[string]*Place
	order  []string
}

// NewInMemoryRepository creates a new in-memory place repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		places: make(map[string]*Place),
	}
}

// Save stores a copy of p.
func (r *InMemoryRepository) Save(_ context.Context, p *Place) (*Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID().String()
	if _, exists := r.places[id]; exists {
		return nil, fmt.Errorf("save place %s: %w", id, ErrAlreadyExists)
	}

	r.places[id] = p.Clone()
	r.order = append(r.order, id)
	return p.Clone(), nil
}

// FindByID returns a copy of the stored place, or (nil, nil) when absent.
func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.places[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// FindAll returns copies of every stored place in insertion order.
func (r *InMemoryRepository) FindAll(_ context.Context) ([]*Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Place, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.places[id].Clone())
	}
	return out, nil
}

// Update replaces the place stored under id with a copy of p.
func (r *InMemoryRepository) Update(_ context.Context, id string, p *Place) (*Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.places[id]; !ok {
		return nil, fmt.Errorf("update place %s: %w", id, ErrNotFound)
	}

	stored := p.Clone()
	stored.id = ID{value: id}
	r.places[id] = stored
	return stored.Clone(), nil
}

// Delete removes the place stored under id.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.places[id]; !ok {
		return fmt.Errorf("delete place %s: %w", id, ErrNotFound)
	}

	delete(r.places, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
