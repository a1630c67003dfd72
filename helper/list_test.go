package helper

import (
	"testing"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdersFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	tt := seedTicketType(t, db, event.ID, 50, 10)
	buyer := seedClient(t, db, "Ana", "ana@test.dev", "DOC-A", "111")
	other := seedClient(t, db, "Bruno", "bruno@test.dev", "DOC-B", "222")

	var orderIDs []uint
	for i := 0; i < 3; i++ {
		o, err := CreateOrder(db, buyer.ID, orderInput(tt.ID, 1))
		require.NoError(t, err)
		orderIDs = append(orderIDs, o.ID)
	}
	_, err := CreateOrder(db, other.ID, orderInput(tt.ID, 1))
	require.NoError(t, err)
	_, err = ConfirmPayment(db, orderIDs[0])
	require.NoError(t, err)

	// Only the caller's orders, all states.
	all, err := ListOrders(db, buyer.ID, model.FilterOrderInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalCount)
	assert.Len(t, all.Rows.([]model.Order), 3)

	// Status filter.
	pending, err := ListOrders(db, buyer.ID, model.FilterOrderInput{Status: model.OrderPending})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pending.TotalCount)

	// Pagination: page 2 of size 2 holds the single remaining order, while
	// TotalCount still reports the unpaginated match count.
	paged, err := ListOrders(db, buyer.ID, model.FilterOrderInput{
		Pagination: model.Pagination{Limit: utils.Ptr(2), Page: utils.Ptr(2)},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.TotalCount)
	assert.Len(t, paged.Rows.([]model.Order), 1)
}

func TestListTicketTypesFiltersByEventAndActive(t *testing.T) {
	db := setupTestDB(t)
	event := seedEvent(t, db, 2, 48)
	otherEvent := seedEvent(t, db, 2, 48)
	active := seedTicketType(t, db, event.ID, 50, 5)
	inactive := seedTicketType(t, db, event.ID, 80, 5)
	seedTicketType(t, db, otherEvent.ID, 60, 5)
	require.NoError(t, db.Model(&model.TicketType{}).
		Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	byEvent, err := ListTicketTypes(db, model.FilterTicketTypeInput{EventId: event.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byEvent.TotalCount)

	onSale, err := ListTicketTypes(db, model.FilterTicketTypeInput{
		EventId:  event.ID,
		IsActive: utils.Ptr(true),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, onSale.TotalCount)
	rows := onSale.Rows.([]model.TicketType)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)
}
