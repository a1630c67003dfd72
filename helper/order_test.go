package helper

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"ticket_manager/model"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderReservesAndTotals(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	general := seedTicketType(t, db, event.ID, 50, 10)
	vip := seedTicketType(t, db, event.ID, 120, 4)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	input := model.CreateOrderInput{
		Items: []model.CreateOrderItemInput{
			{TicketTypeId: general.ID, Quantity: 2, Attendees: attendees(2)},
			{TicketTypeId: vip.ID, Quantity: 1, Attendees: attendees(1)},
		},
	}
	order, err := CreateOrder(db, buyer.ID, input)
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, model.DiscountNone, order.DiscountSource)
	assert.True(t, strings.HasPrefix(order.PublicCode, "ORD-"))
	assert.Equal(t, 220.0, order.Subtotal)
	assert.Equal(t, 220.0, order.Total)
	assert.WithinDuration(t, time.Now().Add(OrderTTL), order.ExpiresAt, 5*time.Second)

	g := reloadType(t, db, general.ID)
	assert.Equal(t, 8, g.Available)
	assert.Equal(t, 2, g.Sold)
	v := reloadType(t, db, vip.ID)
	assert.Equal(t, 3, v.Available)
	assert.Equal(t, 1, v.Sold)

	var reserved int64
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("status = ?", model.TicketReserved).Count(&reserved).Error)
	assert.EqualValues(t, 3, reserved)
}

// Four buyers race full checkouts for three units; exactly three orders may
// come out the other side and the losers must leave nothing behind.
func TestConcurrentCreateOrdersNeverOversell(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 3)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	const buyers = 4
	results := make([]error, buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrTicketConflict):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 3, wins)
	assert.Equal(t, 1, losses)

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).
		Where("status = ?", model.OrderPending).Count(&orders).Error)
	assert.EqualValues(t, 3, orders)

	var reserved int64
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("status = ?", model.TicketReserved).Count(&reserved).Error)
	assert.EqualValues(t, 3, reserved)

	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 0, got.Available)
	assert.Equal(t, 3, got.Sold)
	assert.Equal(t, got.Stock, got.Available+got.Sold)
}

// Items listed out of id order still reserve correctly; the engine sorts
// them so two orders can never lock the same types in opposite order.
func TestCreateOrderWithItemsListedOutOfOrder(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	first := seedTicketType(t, db, event.ID, 50, 5)
	second := seedTicketType(t, db, event.ID, 80, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	input := model.CreateOrderInput{
		Items: []model.CreateOrderItemInput{
			{TicketTypeId: second.ID, Quantity: 1, Attendees: attendees(1)},
			{TicketTypeId: first.ID, Quantity: 2, Attendees: attendees(2)},
		},
	}
	order, err := CreateOrder(db, buyer.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 180.0, order.Subtotal)

	got := reloadOrder(t, db, order.ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, first.ID, got.Items[0].TicketTypeId)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, second.ID, got.Items[1].TicketTypeId)
	assert.Equal(t, 1, got.Items[1].Quantity)

	f := reloadType(t, db, first.ID)
	assert.Equal(t, 3, f.Available)
	s := reloadType(t, db, second.ID)
	assert.Equal(t, 4, s.Available)
}

func TestCreateOrderAttendeeMismatch(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	short := model.CreateOrderInput{Items: []model.CreateOrderItemInput{
		{TicketTypeId: tt.ID, Quantity: 2, Attendees: attendees(1)},
	}}
	_, err := CreateOrder(db, buyer.ID, short)
	require.ErrorIs(t, err, ErrAttendeeMismatch)

	blank := model.CreateOrderInput{Items: []model.CreateOrderItemInput{
		{TicketTypeId: tt.ID, Quantity: 1, Attendees: []model.AttendeeInput{{Name: "Ana", Document: "   "}}},
	}}
	_, err = CreateOrder(db, buyer.ID, blank)
	require.ErrorIs(t, err, ErrAttendeeMismatch)

	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 5, got.Available)
}

func TestCreateOrderOutsideSaleWindow(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	require.NoError(t, db.Model(&model.TicketType{}).
		Where("id = ?", tt.ID).
		Update("sale_end", time.Now().Add(-time.Minute)).Error)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	_, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.ErrorIs(t, err, ErrSaleWindowClosed)
}

// A failing second item must undo the first item's reservation entirely.
func TestCreateOrderIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	first := seedTicketType(t, db, event.ID, 50, 5)
	second := seedTicketType(t, db, event.ID, 80, 1)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	input := model.CreateOrderInput{
		Items: []model.CreateOrderItemInput{
			{TicketTypeId: first.ID, Quantity: 2, Attendees: attendees(2)},
			{TicketTypeId: second.ID, Quantity: 3, Attendees: attendees(3)},
		},
	}
	_, err := CreateOrder(db, buyer.ID, input)
	require.ErrorIs(t, err, ErrInsufficientStock)

	f := reloadType(t, db, first.ID)
	assert.Equal(t, 5, f.Available)
	assert.Equal(t, 0, f.Sold)

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var reserved int64
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("status = ?", model.TicketReserved).Count(&reserved).Error)
	assert.Zero(t, reserved)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 2))
	require.NoError(t, err)

	confirmed, err := ConfirmPayment(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderApproved, confirmed.Status)
	require.NotNil(t, confirmed.ApprovedAt)

	// Second confirmation is a no-op, not an error.
	again, err := ConfirmPayment(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderApproved, again.Status)

	var sold int64
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("status = ? AND client_id = ?", model.TicketSold, buyer.ID).Count(&sold).Error)
	assert.EqualValues(t, 2, sold)

	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 3, got.Available)
	assert.Equal(t, 2, got.Sold)
}

func TestCancelOrderRestoresEverything(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 3))
	require.NoError(t, err)

	cancelled, err := CancelOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderRejected, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 5, got.Available)
	assert.Equal(t, 0, got.Sold)

	var reserved int64
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("status = ?", model.TicketReserved).Count(&reserved).Error)
	assert.Zero(t, reserved)
}

func TestCancelApprovedOrderFails(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	_, err = ConfirmPayment(db, order.ID)
	require.NoError(t, err)

	_, err = CancelOrder(db, order.ID)
	require.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, model.OrderApproved, reloadOrder(t, db, order.ID).Status)
}

func TestVoidOrderReclaimsSoldTickets(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 2))
	require.NoError(t, err)
	_, err = ConfirmPayment(db, order.ID)
	require.NoError(t, err)

	voided, err := VoidOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVoided, voided.Status)

	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 5, got.Available)
	assert.Equal(t, 0, got.Sold)

	var tickets []model.Ticket
	require.NoError(t, db.Where("ticket_type_id = ?", tt.ID).Find(&tickets).Error)
	for _, tk := range tickets {
		assert.Equal(t, model.TicketAvailable, tk.Status)
		assert.Nil(t, tk.ClientId)
		assert.Zero(t, tk.TransferCount)
	}
}

func TestVoidPendingOrderFails(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)

	_, err = VoidOrder(db, order.ID)
	require.ErrorIs(t, err, ErrOrderNotApproved)
}

func TestDiscountSourcesAreMutuallyExclusive(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 100, 10)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	promoFirst, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 2))
	require.NoError(t, err)
	_, err = ApplyPromoDiscount(db, promoFirst.ID, 30)
	require.NoError(t, err)
	_, err = ApplyRedemptionDiscount(db, promoFirst.ID)
	require.ErrorIs(t, err, ErrDiscountConflict)

	pointsFirst, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	_, err = ApplyRedemptionDiscount(db, pointsFirst.ID)
	require.NoError(t, err)
	_, err = ApplyPromoDiscount(db, pointsFirst.ID, 10)
	require.ErrorIs(t, err, ErrDiscountConflict)
}

func TestPromoDiscountClampedToSubtotal(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 40, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)

	got, err := ApplyPromoDiscount(db, order.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Discount)
	assert.Equal(t, 0.0, got.Total)
	assert.Equal(t, model.DiscountPromo, got.DiscountSource)
}

func TestRedemptionZeroesTheOrder(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 75, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 2))
	require.NoError(t, err)

	got, err := ApplyRedemptionDiscount(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Discount)
	assert.Equal(t, 0.0, got.Total)
	assert.Equal(t, model.DiscountPoints, got.DiscountSource)
}

func TestDiscountOnNonPendingOrderFails(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 75, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	_, err = ConfirmPayment(db, order.ID)
	require.NoError(t, err)

	_, err = ApplyPromoDiscount(db, order.ID, 10)
	require.ErrorIs(t, err, ErrOrderNotPending)
}

func TestExpireOrdersSweepsOnlyOverduePending(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 10)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	overdue, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 2))
	require.NoError(t, err)
	fresh, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	approved, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	_, err = ConfirmPayment(db, approved.ID)
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&model.Order{}).
		Where("id IN ?", []uint{overdue.ID, approved.ID}).
		Update("expires_at", past).Error)

	ExpireOrders()

	assert.Equal(t, model.OrderRejected, reloadOrder(t, db, overdue.ID).Status)
	assert.Equal(t, model.OrderPending, reloadOrder(t, db, fresh.ID).Status)
	assert.Equal(t, model.OrderApproved, reloadOrder(t, db, approved.ID).Status)

	// Only the swept order's two units came back.
	got := reloadType(t, db, tt.ID)
	assert.Equal(t, 8, got.Available)
	assert.Equal(t, 2, got.Sold)
}

// The sweeper and a concurrent confirmation race on the same overdue order;
// whichever transition lands first wins and the other is a no-op.
func TestSweepAndConfirmRace(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 5)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")

	order, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	var wg sync.WaitGroup
	var confirmErr error
	wg.Add(2)
	go func() { defer wg.Done(); ExpireOrders() }()
	go func() { defer wg.Done(); _, confirmErr = ConfirmPayment(db, order.ID) }()
	wg.Wait()

	final := reloadOrder(t, db, order.ID)
	got := reloadType(t, db, tt.ID)
	switch final.Status {
	case model.OrderApproved:
		require.NoError(t, confirmErr)
		assert.Equal(t, 4, got.Available)
		assert.Equal(t, 1, got.Sold)
	case model.OrderRejected:
		require.True(t, errors.Is(confirmErr, ErrOrderNotPending) || errors.Is(confirmErr, ErrTicketConflict))
		assert.Equal(t, 5, got.Available)
		assert.Equal(t, 0, got.Sold)
	default:
		t.Fatalf("unexpected final status %s", final.Status)
	}
	assert.Equal(t, got.Stock, got.Available+got.Sold)
}
