package orders

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []Order
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

// Create appends a pending order.
func (s *MemoryStore) Create(_ context.Context, userID, productID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ts := s.now()
	s.rows = append(s.rows, Order{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Status:    StatusPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	return id, nil
}

// MarkPaid flips the newest matching pending order.
func (s *MemoryStore) MarkPaid(_ context.Context, userID, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.rows) - 1; i >= 0; i-- {
		o := &s.rows[i]
		if o.UserID == userID && o.ProductID == productID && o.Status == StatusPending {
			o.Status = StatusPaid
			o.UpdatedAt = s.now()
			return true, nil
		}
	}
	return false, nil
}

// ListByUser returns copies of the user's orders, newest first.
func (s *MemoryStore) ListByUser(_ context.Context, userID int64) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0)
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].UserID == userID {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}
