package coupon

import (
	"sort"
	"sync"
)

// Store is the volatile in-memory coupon collection. Coupons are immutable
// once created, so reads hand out copies and only Create takes the write
// lock; the duplicate-code check and insert happen atomically under it.
type Store struct {
	mu     sync.RWMutex
	byCode map[string]Coupon
}

// NewStore returns an empty coupon store.
func NewStore() *Store {
	return &Store{byCode: make(map[string]Coupon)}
}

// Create inserts a coupon, rejecting case-insensitive duplicates. The coupon
// code must already be normalized.
func (s *Store) Create(c Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byCode[c.Code]; exists {
		return ErrDuplicateCode
	}
	s.byCode[c.Code] = c
	return nil
}

// Get looks up a coupon by normalized code.
func (s *Store) Get(code string) (Coupon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byCode[code]
	return c, ok
}

// List returns every coupon ordered by normalized code.
func (s *Store) List() []Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Coupon, 0, len(s.byCode))
	for _, c := range s.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len reports the number of stored coupons.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}
