package session

import (
	"sync"

	"github.com/studiofoundry/storefront-service/internal/models"
)

// Phase tracks where a session is in the checkout flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseFailed     Phase = "failed"
	PhaseCompleted  Phase = "completed"
)

// Session holds the cart, the applied coupon snapshot and the checkout phase
// for one interactive client. Only one coupon can be applied at a time;
// applying another replaces it.
type Session struct {
	ID string

	mu     sync.Mutex
	items  []models.CartItem
	coupon *models.Coupon
	phase  Phase
}

func newSession(id string) *Session {
	return &Session{ID: id, phase: PhaseIdle}
}

// Add appends the item to the cart. No dedupe: two adds of the same product
// produce two entries, matching the reference storefront.
func (s *Session) Add(item models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Remove drops every entry with the given product ID. No-op when absent.
func (s *Session) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// Clear empties the cart but leaves the applied coupon and phase alone.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the cart in insertion order.
func (s *Session) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice is the sum of unit prices over all entries.
func (s *Session) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.Price
	}
	return total
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ApplyCoupon stores the snapshot as the session's coupon, replacing any
// previously applied one.
func (s *Session) ApplyCoupon(c *models.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = c
}

func (s *Session) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
}

func (s *Session) AppliedCoupon() *models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) SetPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

// CompleteCheckout clears the cart and the coupon and marks the session
// completed. Called once the order and its items are persisted.
func (s *Session) CompleteCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.coupon = nil
	s.phase = PhaseCompleted
}
