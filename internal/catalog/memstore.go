package catalog

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and local runs without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []Product
}

// NewMemoryStore returns an empty store whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// List returns summaries in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProductSummary, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out, nil
}

// Get returns a copy of the stored product.
func (s *MemoryStore) Get(_ context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// Insert appends a product and assigns the next id.
func (s *MemoryStore) Insert(_ context.Context, p NewProduct) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.rows = append(s.rows, Product{
		ID:          id,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Login:       p.Login,
		Password:    p.Password,
	})
	return id, nil
}

// Delete removes the product if present.
func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.rows {
		if p.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
