package services

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"food-delivery-admin-api/models"
	"food-delivery-admin-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePercentageChange(t *testing.T) {
	cases := []struct {
		cur, prev, want float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
		{10, 3, 233.3},
		{1, 3, -66.7},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CalculatePercentageChange(c.cur, c.prev), "%v vs %v", c.cur, c.prev)
	}
}

func TestStatsWindows(t *testing.T) {
	e := newEnv(t)
	now := testutil.Now
	cust := testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	testutil.SeedAccount(t, e.db, models.RoleDriver, "dan@example.com")
	r := testutil.SeedRestaurant(t, e.db, 1, "Luigi's")

	// today: 3 orders, yesterday: 2
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusPending, 10, now.Add(-time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusDelivered, 20, now.Add(-2*time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusInTransit, 30, now.Add(-3*time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusDelivered, 40, now.Add(-24*time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusCancelled, 50, now.Add(-25*time.Hour))
	// previous week
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusDelivered, 120, now.Add(-10*24*time.Hour))
	// older than two weeks
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusDelivered, 1000, now.Add(-30*24*time.Hour))

	st, err := e.svc.Dashboard.Stats(e.ctx)
	require.NoError(t, err)

	assert.Equal(t, 3.0, st.OrdersToday.Current)
	assert.Equal(t, 2.0, st.OrdersToday.Previous)
	assert.Equal(t, 50.0, st.OrdersToday.Change)

	assert.Equal(t, 60.0, st.Revenue.Current)
	assert.Equal(t, 120.0, st.Revenue.Previous)
	assert.Equal(t, -50.0, st.Revenue.Change)
	assert.Equal(t, 1180.0, st.Revenue.Total)
	assert.Equal(t, 295.0, st.AverageOrderValue)

	assert.Equal(t, 1.0, st.Customers.Total)
	assert.Equal(t, 100.0, st.Customers.Change)
	assert.Equal(t, 1.0, st.Drivers.Total)
	assert.Equal(t, int64(1), st.Drivers.Available)
	assert.Equal(t, 1.0, st.Restaurants.Total)

	assert.Equal(t, int64(1), st.PendingOrders)
	assert.Equal(t, int64(1), st.ActiveDeliveries)
	assert.Equal(t, int64(4), st.OrdersByStatus["delivered"])
}

func TestChartData(t *testing.T) {
	e := newEnv(t)
	now := testutil.Now
	cust := testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	a := testutil.SeedRestaurant(t, e.db, 1, "Luigi's")
	b := testutil.SeedRestaurant(t, e.db, 1, "Sushi Bar")

	testutil.SeedOrder(t, e.db, cust.ID, a.ID, models.StatusDelivered, 25, now.Add(-time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, a.ID, models.StatusPending, 10, now.Add(-2*time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, b.ID, models.StatusDelivered, 40, now.Add(-48*time.Hour))
	testutil.SeedOrder(t, e.db, cust.ID, b.ID, models.StatusDelivered, 99, now.Add(-20*24*time.Hour))

	data, err := e.svc.Dashboard.ChartData(e.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultChartDays, data.Days)
	require.Len(t, data.Points, 7)
	assert.Equal(t, "2026-03-18", data.Points[6].Date)
	assert.Equal(t, int64(2), data.Points[6].Orders)
	assert.Equal(t, 25.0, data.Points[6].Revenue)
	assert.Equal(t, "2026-03-16", data.Points[4].Date)
	assert.Equal(t, 40.0, data.Points[4].Revenue)

	require.Len(t, data.TopRestaurants, 2)
	assert.Equal(t, "Luigi's", data.TopRestaurants[0].Name)
	assert.Equal(t, int64(2), data.TopRestaurants[0].Orders)
	assert.Equal(t, 25.0, data.TopRestaurants[0].Revenue)

	data, err = e.svc.Dashboard.ChartData(e.ctx, 365)
	require.NoError(t, err)
	assert.Len(t, data.Points, MaxChartDays)
}

func TestChartDaysFollowCalendarAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// clocks went forward on 2026-03-08, so that day had 23 hours
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, ny)
	db := testutil.OpenTestDB(t)
	svc := New(db, testutil.NewMemoryStore(), func() time.Time { return now })
	cust := testutil.SeedAccount(t, db, models.RoleCustomer, "alice@example.com")
	r := testutil.SeedRestaurant(t, db, 1, "Luigi's")

	testutil.SeedOrder(t, db, cust.ID, r.ID, models.StatusPending, 10, time.Date(2026, 3, 7, 23, 30, 0, 0, ny))
	testutil.SeedOrder(t, db, cust.ID, r.ID, models.StatusPending, 10, time.Date(2026, 3, 8, 12, 0, 0, 0, ny))

	data, err := svc.Dashboard.ChartData(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, data.Points, 2)
	assert.Equal(t, "2026-03-08", data.Points[0].Date)
	assert.Equal(t, int64(1), data.Points[0].Orders)
	assert.Equal(t, "2026-03-09", data.Points[1].Date)
	assert.Equal(t, int64(0), data.Points[1].Orders)
}

func TestSuggestions(t *testing.T) {
	e := newEnv(t)
	got, err := e.svc.Dashboard.Suggestions(e.ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "all_clear", got[0].Type)

	cust := testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	r := testutil.SeedRestaurant(t, e.db, 1, "Luigi's")
	m := testutil.SeedMenuItem(t, e.db, r.ID, "Lasagne", 11)
	m.Stock = models.Stock{TrackInventory: true}
	require.NoError(t, e.db.Save(m).Error)
	testutil.SeedOrder(t, e.db, cust.ID, r.ID, models.StatusPending, 10, testutil.Now.Add(-time.Minute))

	got, err = e.svc.Dashboard.Suggestions(e.ctx)
	require.NoError(t, err)
	types := map[string]string{}
	for _, s := range got {
		types[s.Type] = s.Priority
	}
	assert.Equal(t, "high", types["driver_shortage"])
	assert.Equal(t, "medium", types["empty_menu"])
	assert.Equal(t, "medium", types["out_of_stock"])
	assert.NotContains(t, types, "all_clear")
}
