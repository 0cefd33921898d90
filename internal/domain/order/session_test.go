package order

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/pkg/logger"
)

func menu(t *testing.T) map[int]catalog.Item {
	t.Helper()
	out := make(map[int]catalog.Item)
	for _, item := range catalog.DefaultItems() {
		out[item.ID] = item
	}
	return out
}

func newTestSession(opts ...Option) *Session {
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewSession("s-1", opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddTwoDifferentItems(t *testing.T) {
	items := menu(t)
	s := newTestSession()

	s.AddItem(items[1])
	s.AddItem(items[2])

	assert.True(t, s.ComputeTotal().Equal(dec("21.98")), "got %s", s.ComputeTotal())
	assert.Equal(t, 2, s.State().ItemCount)
}

func TestRemoveItemRemovesAllUnits(t *testing.T) {
	items := menu(t)
	s := newTestSession()

	s.AddItem(items[1])
	s.AddItem(items[1])
	require.Equal(t, 2, s.State().ItemCount)
	assert.True(t, s.ComputeTotal().Equal(dec("17.98")))

	removed := s.RemoveItem(1)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, s.State().ItemCount)
	assert.True(t, s.ComputeTotal().IsZero())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[1])
	s.AddItem(items[3])
	s.AddItem(items[1])

	s.RemoveItem(1)
	once := s.State().Cart
	removed := s.RemoveItem(1)
	twice := s.State().Cart

	assert.Zero(t, removed)
	assert.Equal(t, once, twice)
	require.Len(t, twice, 1)
	assert.Equal(t, 3, twice[0].ItemID)
}

func TestRemoveMissingItemDoesNotNotify(t *testing.T) {
	s := newTestSession()
	calls := 0
	s.Subscribe(func(State) { calls++ })

	assert.Zero(t, s.RemoveItem(99))
	assert.Zero(t, calls)
}

func TestCartPreservesSelectionOrder(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	for _, id := range []int{4, 2, 4, 1} {
		s.AddItem(items[id])
	}

	var got []int
	for _, entry := range s.State().Cart {
		got = append(got, entry.ItemID)
	}
	assert.Equal(t, []int{4, 2, 4, 1}, got)
}

func TestTotalMatchesCartAfterRandomOperations(t *testing.T) {
	items := catalog.DefaultItems()
	rng := rand.New(rand.NewSource(7))
	s := newTestSession()

	for i := 0; i < 500; i++ {
		item := items[rng.Intn(len(items))]
		if rng.Intn(3) == 0 {
			s.RemoveItem(item.ID)
		} else {
			s.AddItem(item)
		}

		state := s.State()
		expected := decimal.Zero
		for _, entry := range state.Cart {
			expected = expected.Add(entry.UnitPrice)
		}
		require.True(t, s.ComputeTotal().Equal(expected), "step %d: total %s, expected %s", i, s.ComputeTotal(), expected)
		require.True(t, state.Total.Equal(expected))
	}
}

func TestBeginCheckoutSnapshotMatchesTotal(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[2])
	s.AddItem(items[4])

	snap, err := s.BeginCheckout()
	require.NoError(t, err)

	assert.True(t, snap.Total.Equal(s.ComputeTotal()))
	assert.Len(t, snap.Items, 2)

	state := s.State()
	assert.Equal(t, PhaseCheckout, state.Phase)
	require.NotNil(t, state.Snapshot)
	assert.True(t, state.Snapshot.Total.Equal(dec("27.98")))
	assert.Equal(t, 2, state.ItemCount, "cart is kept during checkout")
}

func TestBeginCheckoutWithEmptyCart(t *testing.T) {
	s := newTestSession()

	snap, err := s.BeginCheckout()
	require.NoError(t, err)

	assert.Empty(t, snap.Items)
	assert.True(t, snap.Total.IsZero())
	assert.Equal(t, PhaseCheckout, s.State().Phase)
}

func TestBeginCheckoutTwiceFails(t *testing.T) {
	s := newTestSession()
	_, err := s.BeginCheckout()
	require.NoError(t, err)

	_, err = s.BeginCheckout()
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestSnapshotIsACopy(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[1])
	_, err := s.BeginCheckout()
	require.NoError(t, err)

	s.AddItem(items[2])

	state := s.State()
	assert.Len(t, state.Snapshot.Items, 1)
	assert.True(t, state.Snapshot.Total.Equal(dec("8.99")))
	assert.Equal(t, 2, state.ItemCount)
}

func TestCancelCheckout(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[1])

	assert.ErrorIs(t, s.CancelCheckout(), ErrInvalidPhase)

	_, err := s.BeginCheckout()
	require.NoError(t, err)
	require.NoError(t, s.UpdateContactField(FieldName, "Jean"))
	require.NoError(t, s.CancelCheckout())

	state := s.State()
	assert.Equal(t, PhaseBrowsing, state.Phase)
	assert.Nil(t, state.Snapshot)
	assert.Equal(t, 1, state.ItemCount)
	assert.Equal(t, "Jean", state.Contact.Name)
}

func TestUpdateContactField(t *testing.T) {
	s := newTestSession()

	err := s.UpdateContactField(FieldName, "Jean")
	assert.ErrorIs(t, err, ErrInvalidPhase)

	_, err = s.BeginCheckout()
	require.NoError(t, err)

	require.NoError(t, s.UpdateContactField(FieldName, "Jean Dupont"))
	require.NoError(t, s.UpdateContactField(FieldEmail, "jean@example.com"))
	require.NoError(t, s.UpdateContactField(FieldMobile, "0600000000"))
	require.NoError(t, s.UpdateContactField(FieldAddress, "1 rue de Paris"))
	assert.ErrorIs(t, s.UpdateContactField("phone", "x"), ErrUnknownField)

	contact := s.State().Contact
	assert.Equal(t, "Jean Dupont", contact.Name)
	assert.Equal(t, "jean@example.com", contact.Email)
	assert.Equal(t, "0600000000", contact.Mobile)
	assert.Equal(t, "1 rue de Paris", contact.Address)
	assert.Nil(t, contact.Location)
}

func TestParseContactField(t *testing.T) {
	f, err := ParseContactField("email")
	require.NoError(t, err)
	assert.Equal(t, FieldEmail, f)

	_, err = ParseContactField("location")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func fillContact(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateContactField(FieldName, "Jean"))
	require.NoError(t, s.UpdateContactField(FieldEmail, "jean@example.com"))
	require.NoError(t, s.UpdateContactField(FieldMobile, "0600000000"))
	require.NoError(t, s.UpdateContactField(FieldAddress, "1 rue de Paris"))
}

func TestSubmitOrderResetsSession(t *testing.T) {
	items := menu(t)
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var received []Submission
	sink := SinkFunc(func(ctx context.Context, sub Submission) error {
		received = append(received, sub)
		return nil
	})

	s := newTestSession(
		WithSink(sink),
		WithClock(func() time.Time { return fixed }),
		WithOrderNumbers(func(time.Time) string { return "BP-TEST-1" }),
	)
	s.AddItem(items[1])
	s.AddItem(items[2])
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	fillContact(t, s)

	sub, err := s.SubmitOrder(context.Background())
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, sub, received[0])
	assert.Equal(t, "BP-TEST-1", sub.OrderNumber)
	assert.Equal(t, "s-1", sub.SessionID)
	assert.True(t, sub.Total.Equal(dec("21.98")))
	assert.Len(t, sub.Items, 2)
	assert.Equal(t, "EUR", sub.Currency)
	assert.Equal(t, fixed, sub.SubmittedAt)

	state := s.State()
	assert.Equal(t, PhaseBrowsing, state.Phase)
	assert.Empty(t, state.Cart)
	assert.Nil(t, state.Snapshot)
	assert.True(t, state.Total.IsZero())
	assert.Equal(t, "Jean", state.Contact.Name, "contact is kept by default")
}

func TestSubmitOrderUsesCartNotSnapshot(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[1])
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	s.AddItem(items[4])

	sub, err := s.SubmitOrder(context.Background())
	require.NoError(t, err)

	assert.Len(t, sub.Items, 2)
	assert.True(t, sub.Total.Equal(dec("23.98")))
}

func TestSubmitOrderAlwaysEmptiesCart(t *testing.T) {
	items := catalog.DefaultItems()
	for n := 0; n < 6; n++ {
		s := newTestSession()
		for i := 0; i < n; i++ {
			s.AddItem(items[i%len(items)])
		}
		_, err := s.BeginCheckout()
		require.NoError(t, err)

		_, err = s.SubmitOrder(context.Background())
		require.NoError(t, err)

		state := s.State()
		assert.Empty(t, state.Cart)
		assert.Equal(t, PhaseBrowsing, state.Phase)
	}
}

func TestSubmitOrderWithContactReset(t *testing.T) {
	s := newTestSession(WithContactReset(true))
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	fillContact(t, s)

	_, err = s.SubmitOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ContactInfo{}, s.State().Contact)
}

func TestSubmitOrderOutsideCheckout(t *testing.T) {
	s := newTestSession()
	_, err := s.SubmitOrder(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestSubmitOrderSinkFailureKeepsSession(t *testing.T) {
	items := menu(t)
	boom := errors.New("sink down")
	s := newTestSession(WithSink(SinkFunc(func(context.Context, Submission) error { return boom })))
	s.AddItem(items[3])
	_, err := s.BeginCheckout()
	require.NoError(t, err)

	_, err = s.SubmitOrder(context.Background())
	assert.ErrorIs(t, err, boom)

	state := s.State()
	assert.Equal(t, PhaseCheckout, state.Phase)
	assert.Equal(t, 1, state.ItemCount)
	assert.NotNil(t, state.Snapshot)
}

func TestObserversSeeEveryMutation(t *testing.T) {
	items := menu(t)
	s := newTestSession()

	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	s.AddItem(items[1])
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	require.NoError(t, s.UpdateContactField(FieldName, "Jean"))
	_, err = s.SubmitOrder(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 4)
	for i := 1; i < len(seen); i++ {
		assert.Equal(t, seen[i-1].Version+1, seen[i].Version)
	}
	assert.Equal(t, PhaseCheckout, seen[1].Phase)
	assert.Equal(t, PhaseBrowsing, seen[3].Phase)

	unsubscribe()
	s.AddItem(items[2])
	assert.Len(t, seen, 4)
}

func TestRestoreSession(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[2])
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	require.NoError(t, s.UpdateContactField(FieldAddress, "2 place du Marché"))

	state := s.State()
	restored := RestoreSession(state, WithLogger(logger.Discard()))

	got := restored.State()
	assert.Equal(t, state.Phase, got.Phase)
	assert.Equal(t, state.Cart, got.Cart)
	assert.Equal(t, state.Contact, got.Contact)
	assert.Equal(t, state.Version, got.Version)
	require.NotNil(t, got.Snapshot)
	assert.True(t, got.Snapshot.Total.Equal(dec("12.99")))

	_, err = restored.SubmitOrder(context.Background())
	require.NoError(t, err)
}

func TestSubmissionLines(t *testing.T) {
	items := menu(t)
	s := newTestSession()
	s.AddItem(items[1])
	s.AddItem(items[3])
	s.AddItem(items[1])
	_, err := s.BeginCheckout()
	require.NoError(t, err)

	sub, err := s.SubmitOrder(context.Background())
	require.NoError(t, err)

	lines := sub.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Total.Equal(dec("17.98")))
	assert.Equal(t, 3, lines[1].ItemID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestUpdateContactCommitsOnce(t *testing.T) {
	s := newTestSession()
	_, err := s.BeginCheckout()
	require.NoError(t, err)

	var seen []State
	s.Subscribe(func(state State) { seen = append(seen, state) })

	require.NoError(t, s.UpdateContact(map[ContactField]string{
		FieldName:    "Jean",
		FieldEmail:   "jean@example.com",
		FieldAddress: "1 rue de Paris",
	}))

	require.Len(t, seen, 1)
	assert.Equal(t, "Jean", seen[0].Contact.Name)
	assert.Equal(t, "jean@example.com", seen[0].Contact.Email)
	assert.Equal(t, "1 rue de Paris", seen[0].Contact.Address)

	before := s.State()
	err = s.UpdateContact(map[ContactField]string{FieldName: "Other", "phone": "x"})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Len(t, seen, 1)
	assert.Equal(t, before.Contact, s.State().Contact)
}

func TestSubmitOrderPreconditionSeesCommittedContact(t *testing.T) {
	items := menu(t)
	sinkCalls := 0
	s := newTestSession(WithSink(SinkFunc(func(context.Context, Submission) error {
		sinkCalls++
		return nil
	})))
	s.AddItem(items[1])
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	require.NoError(t, s.UpdateContactField(FieldName, "Jean"))
	require.NoError(t, s.UpdateContactField(FieldName, ""))

	errBlank := errors.New("name is blank")
	requireName := func(c ContactInfo) error {
		if c.Name == "" {
			return errBlank
		}
		return nil
	}

	before := s.State()
	_, err = s.SubmitOrder(context.Background(), requireName)
	assert.ErrorIs(t, err, errBlank)
	assert.Zero(t, sinkCalls)
	assert.Equal(t, before, s.State())

	require.NoError(t, s.UpdateContactField(FieldName, "Jean"))
	_, err = s.SubmitOrder(context.Background(), requireName)
	require.NoError(t, err)
	assert.Equal(t, 1, sinkCalls)
	assert.Equal(t, PhaseBrowsing, s.State().Phase)
}
