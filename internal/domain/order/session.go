// internal/domain/order/session.go
package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/pkg/redact"
)

// Session is one ordering session: a cart, the checkout form and the phase
// that decides which of them is being worked on.
//
// Every mutation runs to completion under the session lock and then notifies
// observers synchronously, still under the lock, so observers see states in
// version order. Observers must not call back into the session.
type Session struct {
	mu        sync.Mutex
	id        string
	phase     Phase
	cart      []CartEntry
	contact   ContactInfo
	snapshot  *Snapshot
	locErr    string
	lookups   int
	version   uint64
	updatedAt time.Time

	observers map[int]Observer
	nextObs   int

	sink         Sink
	logger       logrus.FieldLogger
	currency     string
	resetContact bool
	now          func() time.Time
	orderNumber  func(time.Time) string
}

// Option configures a Session
type Option func(*Session)

// WithSink sets where submitted orders are sent
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithLogger sets the session logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithCurrency sets the currency code reported with totals
func WithCurrency(currency string) Option {
	return func(s *Session) { s.currency = currency }
}

// WithContactReset clears the contact form after each successful submission
func WithContactReset(reset bool) Option {
	return func(s *Session) { s.resetContact = reset }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOrderNumbers overrides order number generation
func WithOrderNumbers(gen func(time.Time) string) Option {
	return func(s *Session) { s.orderNumber = gen }
}

// NewSession creates an empty session in the browsing phase
func NewSession(id string, opts ...Option) *Session {
	s := &Session{
		id:          id,
		phase:       PhaseBrowsing,
		cart:        []CartEntry{},
		observers:   make(map[int]Observer),
		logger:      logrus.StandardLogger(),
		currency:    "EUR",
		now:         time.Now,
		orderNumber: generateOrderNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updatedAt = s.now().UTC()
	return s
}

// RestoreSession rebuilds a session from a previously published state
func RestoreSession(state State, opts ...Option) *Session {
	s := NewSession(state.SessionID, opts...)
	s.phase = state.Phase
	if s.phase != PhaseCheckout {
		s.phase = PhaseBrowsing
	}
	s.cart = copyEntries(state.Cart)
	s.contact = state.Contact.clone()
	if state.Snapshot != nil && s.phase == PhaseCheckout {
		s.snapshot = &Snapshot{Items: copyEntries(state.Snapshot.Items), Total: state.Snapshot.Total}
	}
	s.locErr = state.LocationError
	s.version = state.Version
	if !state.UpdatedAt.IsZero() {
		s.updatedAt = state.UpdatedAt
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// AddItem appends one unit of item to the cart
func (s *Session) AddItem(item catalog.Item) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = append(s.cart, entryFrom(item))
	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"item_id":    item.ID,
		"cart_size":  len(s.cart),
	}).Debug("Item added to cart")

	return s.commit()
}

// RemoveItem drops every unit of the given item from the cart and reports how
// many were removed. Removing an item that is not in the cart is a no-op.
func (s *Session) RemoveItem(itemID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0:0]
	for _, entry := range s.cart {
		if entry.ItemID != itemID {
			kept = append(kept, entry)
		}
	}

	removed := len(s.cart) - len(kept)
	if removed == 0 {
		return 0
	}

	s.cart = kept
	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"item_id":    itemID,
		"removed":    removed,
	}).Debug("Item removed from cart")

	s.commit()
	return removed
}

// ComputeTotal sums the unit prices of the cart
func (s *Session) ComputeTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sumPrices(s.cart)
}

// BeginCheckout captures a snapshot of the cart and moves to checkout. The
// cart itself is kept.
func (s *Session) BeginCheckout() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseBrowsing {
		return Snapshot{}, fmt.Errorf("begin checkout: %w", ErrInvalidPhase)
	}

	snap := Snapshot{Items: copyEntries(s.cart), Total: sumPrices(s.cart)}
	s.snapshot = &snap
	s.phase = PhaseCheckout

	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"items":      len(snap.Items),
		"total":      snap.Total.StringFixed(2),
	}).Info("Checkout started")

	s.commit()
	return Snapshot{Items: copyEntries(snap.Items), Total: snap.Total}, nil
}

// CancelCheckout returns to browsing without submitting. Cart and contact
// details are kept.
func (s *Session) CancelCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCheckout {
		return fmt.Errorf("cancel checkout: %w", ErrInvalidPhase)
	}

	s.snapshot = nil
	s.phase = PhaseBrowsing
	s.logger.WithField("session_id", s.id).Info("Checkout cancelled")

	s.commit()
	return nil
}

// UpdateContactField sets one field of the checkout form
func (s *Session) UpdateContactField(field ContactField, value string) error {
	return s.UpdateContact(map[ContactField]string{field: value})
}

// UpdateContact sets several fields of the checkout form as one change.
// Nothing is applied when any field is unknown.
func (s *Session) UpdateContact(fields map[ContactField]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCheckout {
		return fmt.Errorf("update contact: %w", ErrInvalidPhase)
	}

	for field := range fields {
		if _, err := ParseContactField(string(field)); err != nil {
			return err
		}
	}
	if len(fields) == 0 {
		return nil
	}

	for field, value := range fields {
		switch field {
		case FieldName:
			s.contact.Name = value
		case FieldEmail:
			s.contact.Email = value
		case FieldMobile:
			s.contact.Mobile = value
		case FieldAddress:
			s.contact.Address = value
		}
	}

	s.commit()
	return nil
}

// Precondition vets the contact details before an order is submitted. It
// runs under the session lock, so it sees exactly what will be submitted.
type Precondition func(ContactInfo) error

// SubmitOrder hands the cart and contact details to the sink, then resets the
// session to an empty cart in the browsing phase. When a precondition or the
// sink fails the session is left as it was and that error is returned.
func (s *Session) SubmitOrder(ctx context.Context, checks ...Precondition) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCheckout {
		return Submission{}, fmt.Errorf("submit order: %w", ErrInvalidPhase)
	}

	for _, check := range checks {
		if err := check(s.contact.clone()); err != nil {
			return Submission{}, err
		}
	}

	now := s.now().UTC()
	sub := Submission{
		OrderNumber: s.orderNumber(now),
		SessionID:   s.id,
		Items:       copyEntries(s.cart),
		Total:       sumPrices(s.cart),
		Currency:    s.currency,
		Contact:     s.contact.clone(),
		SubmittedAt: now,
	}

	if s.sink != nil {
		if err := s.sink.Submit(ctx, sub); err != nil {
			s.logger.WithFields(logrus.Fields{
				"session_id":   s.id,
				"order_number": sub.OrderNumber,
			}).WithError(err).Error("Order submission failed")
			return Submission{}, fmt.Errorf("submit order %s: %w", sub.OrderNumber, err)
		}
	}

	s.cart = []CartEntry{}
	s.snapshot = nil
	s.phase = PhaseBrowsing
	if s.resetContact {
		s.contact = ContactInfo{}
		s.locErr = ""
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":   s.id,
		"order_number": sub.OrderNumber,
		"items":        len(sub.Items),
		"total":        sub.Total.StringFixed(2),
		"email_fp":     redact.Fingerprint(sub.Contact.Email),
	}).Info("Order submitted")

	s.commit()
	return sub, nil
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// PendingLookups reports how many location requests have not resolved yet
func (s *Session) PendingLookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

// Observers reports how many observers are subscribed
func (s *Session) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Subscribe registers an observer and returns a function that removes it
func (s *Session) Subscribe(observer Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// commit bumps the version and notifies observers. Callers hold s.mu.
func (s *Session) commit() State {
	s.version++
	s.updatedAt = s.now().UTC()

	state := s.stateLocked()
	for _, observer := range s.observers {
		observer(state)
	}
	return state
}

func (s *Session) stateLocked() State {
	state := State{
		SessionID:     s.id,
		Version:       s.version,
		Phase:         s.phase,
		Cart:          copyEntries(s.cart),
		ItemCount:     len(s.cart),
		Total:         sumPrices(s.cart),
		Currency:      s.currency,
		Contact:       s.contact.clone(),
		LocationError: s.locErr,
		UpdatedAt:     s.updatedAt,
	}
	if s.snapshot != nil {
		state.Snapshot = &Snapshot{Items: copyEntries(s.snapshot.Items), Total: s.snapshot.Total}
	}
	return state
}

func generateOrderNumber(now time.Time) string {
	// Format: BP-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BP-%s-%s", now.Format("20060102"), suffix)
}
