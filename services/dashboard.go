package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/statemachine"

	"gorm.io/gorm"
)

const (
	DefaultChartDays = 7
	MaxChartDays     = 90
)

// DashboardService computes the dashboard figures. Nothing is cached; every
// call reads the tables again.
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// Metric is a headline figure with its period-over-period change.
type Metric struct {
	Total    float64 `json:"total"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

func newMetric(total, current, previous float64) Metric {
	return Metric{Total: total, Current: current, Previous: previous, Change: CalculatePercentageChange(current, previous)}
}

type DriverMetric struct {
	Metric
	Available int64 `json:"available"`
}

// Stats mixes windows on purpose: orders compare today with yesterday, the
// rest compare the last 7 days with the 7 before.
type Stats struct {
	OrdersToday       Metric           `json:"orders_today"`
	Revenue           Metric           `json:"revenue"`
	Customers         Metric           `json:"customers"`
	Restaurants       Metric           `json:"restaurants"`
	Drivers           DriverMetric     `json:"drivers"`
	PendingOrders     int64            `json:"pending_orders"`
	ActiveDeliveries  int64            `json:"active_deliveries"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	AverageOrderValue float64          `json:"average_order_value"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

type ChartPoint struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopRestaurant struct {
	RestaurantID uint    `json:"restaurant_id"`
	Name         string  `json:"name"`
	Orders       int64   `json:"orders" gorm:"column:order_count"`
	Revenue      float64 `json:"revenue"`
}

type ChartData struct {
	Days           int             `json:"days"`
	Points         []ChartPoint    `json:"points"`
	TopRestaurants []TopRestaurant `json:"top_restaurants"`
}

type Suggestion struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// CalculatePercentageChange returns the change from previous to current in
// percent, rounded to one decimal. Growth from zero counts as 100%.
func CalculatePercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return math.Round((current-previous)/previous*1000) / 10
}

// window is a half-open [from, to) range on created_at.
type window struct{ from, to time.Time }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *DashboardService) count(ctx context.Context, model any, w *window, query string, args ...any) (int64, error) {
	q := s.db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if w != nil {
		q = q.Where("created_at >= ? AND created_at < ?", w.from, w.to)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (s *DashboardService) revenue(ctx context.Context, w *window) (float64, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.StatusDelivered)
	if w != nil {
		q = q.Where("created_at >= ? AND created_at < ?", w.from, w.to)
	}
	var sum float64
	err := q.Select("COALESCE(SUM(total_amount), 0)").Scan(&sum).Error
	return sum, err
}

// lastWeek and weekBefore are the rolling 7-day windows ending at now. Calendar
// arithmetic keeps them aligned to wall-clock time across DST changes.
func lastWeek(now time.Time) *window   { return &window{now.AddDate(0, 0, -7), now} }
func weekBefore(now time.Time) *window { return &window{now.AddDate(0, 0, -14), now.AddDate(0, 0, -7)} }

// weekly counts rows of model created in the last 7 days and in the 7 days before.
func (s *DashboardService) weekly(ctx context.Context, now time.Time, model any, query string, args ...any) (cur, prev int64, err error) {
	if cur, err = s.count(ctx, model, lastWeek(now), query, args...); err != nil {
		return
	}
	prev, err = s.count(ctx, model, weekBefore(now), query, args...)
	return
}

func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.stats(ctx, s.now())
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute dashboard stats")
	}
	return st, nil
}

func (s *DashboardService) stats(ctx context.Context, now time.Time) (*Stats, error) {
	st := &Stats{OrdersByStatus: map[string]int64{}, GeneratedAt: now}
	today := startOfDay(now)

	todayN, err := s.count(ctx, &models.Order{}, &window{today, today.AddDate(0, 0, 1)}, "")
	if err != nil {
		return nil, err
	}
	yesterdayN, err := s.count(ctx, &models.Order{}, &window{today.AddDate(0, 0, -1), today}, "")
	if err != nil {
		return nil, err
	}
	st.OrdersToday = newMetric(float64(todayN), float64(todayN), float64(yesterdayN))

	allRevenue, err := s.revenue(ctx, nil)
	if err != nil {
		return nil, err
	}
	weekRevenue, err := s.revenue(ctx, lastWeek(now))
	if err != nil {
		return nil, err
	}
	prevRevenue, err := s.revenue(ctx, weekBefore(now))
	if err != nil {
		return nil, err
	}
	st.Revenue = newMetric(allRevenue, weekRevenue, prevRevenue)

	customers, err := s.count(ctx, &models.Account{}, nil, "role = ?", models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	cur, prev, err := s.weekly(ctx, now, &models.Account{}, "role = ?", models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	st.Customers = newMetric(float64(customers), float64(cur), float64(prev))

	restaurants, err := s.count(ctx, &models.Restaurant{}, nil, "is_active = ?", true)
	if err != nil {
		return nil, err
	}
	if cur, prev, err = s.weekly(ctx, now, &models.Restaurant{}, ""); err != nil {
		return nil, err
	}
	st.Restaurants = newMetric(float64(restaurants), float64(cur), float64(prev))

	drivers, err := s.count(ctx, &models.Account{}, nil, "role = ? AND is_active = ?", models.RoleDriver, true)
	if err != nil {
		return nil, err
	}
	if cur, prev, err = s.weekly(ctx, now, &models.Account{}, "role = ?", models.RoleDriver); err != nil {
		return nil, err
	}
	st.Drivers.Metric = newMetric(float64(drivers), float64(cur), float64(prev))
	if st.Drivers.Available, err = s.count(ctx, &models.Account{}, nil,
		"role = ? AND is_active = ? AND is_available = ?", models.RoleDriver, true, true); err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.OrderStatus
		N      int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	var delivered int64
	for _, r := range rows {
		st.OrdersByStatus[string(r.Status)] = r.N
		switch {
		case r.Status == models.StatusPending:
			st.PendingOrders = r.N
		case r.Status == models.StatusDelivered:
			delivered = r.N
		case !statemachine.IsTerminal(r.Status):
			st.ActiveDeliveries += r.N
		}
	}
	if delivered > 0 {
		st.AverageOrderValue = math.Round(allRevenue/float64(delivered)*100) / 100
	}
	return st, nil
}

// ChartData returns one point per day, oldest first, ending today.
// days <= 0 means the default; anything above MaxChartDays is capped.
func (s *DashboardService) ChartData(ctx context.Context, days int) (*ChartData, error) {
	if days <= 0 {
		days = DefaultChartDays
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}
	today := startOfDay(s.now())
	data := &ChartData{Days: days, Points: make([]ChartPoint, 0, days), TopRestaurants: []TopRestaurant{}}

	for i := days - 1; i >= 0; i-- {
		w := window{today.AddDate(0, 0, -i), today.AddDate(0, 0, 1-i)}
		n, err := s.count(ctx, &models.Order{}, &w, "")
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to compute chart data")
		}
		rev, err := s.revenue(ctx, &w)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to compute chart data")
		}
		data.Points = append(data.Points, ChartPoint{Date: w.from.Format("2006-01-02"), Orders: n, Revenue: rev})
	}

	from := today.AddDate(0, 0, 1-days)
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("orders.restaurant_id, COALESCE(restaurants.name, '') AS name, COUNT(*) AS order_count, "+
			"COALESCE(SUM(CASE WHEN orders.status = ? THEN orders.total_amount ELSE 0 END), 0) AS revenue", models.StatusDelivered).
		Joins("LEFT JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Where("orders.created_at >= ?", from).
		Group("orders.restaurant_id, restaurants.name").
		Order("order_count DESC, orders.restaurant_id").
		Limit(5).
		Scan(&data.TopRestaurants).Error
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute top restaurants")
	}
	return data, nil
}

// Suggestions turns the current figures into operator hints, most urgent first.
func (s *DashboardService) Suggestions(ctx context.Context) ([]Suggestion, error) {
	st, err := s.stats(ctx, s.now())
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute suggestions")
	}
	var out []Suggestion
	add := func(typ, priority, title, msg string) {
		out = append(out, Suggestion{Type: typ, Priority: priority, Title: title, Message: msg})
	}

	if st.PendingOrders > 0 && st.Drivers.Available == 0 {
		add("driver_shortage", "high", "No drivers available",
			fmt.Sprintf("%d order(s) are waiting and no active driver is available.", st.PendingOrders))
	}
	if st.PendingOrders >= 10 {
		add("pending_backlog", "high", "Pending orders are piling up",
			fmt.Sprintf("%d orders are still pending confirmation.", st.PendingOrders))
	}
	if st.Revenue.Change < -20 {
		add("revenue_drop", "high", "Revenue is down",
			fmt.Sprintf("Delivered revenue fell %.1f%% compared with the previous week.", -st.Revenue.Change))
	}

	db := s.db.WithContext(ctx)
	var emptyMenus int64
	err = db.Model(&models.Restaurant{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", s.db.Model(&models.MenuItem{}).Select("restaurant_id").Where("is_available = ?", true)).
		Count(&emptyMenus).Error
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute suggestions")
	}
	if emptyMenus > 0 {
		add("empty_menu", "medium", "Restaurants without available items",
			fmt.Sprintf("%d active restaurant(s) have nothing customers can order.", emptyMenus))
	}

	var outOfStock, lowStock int64
	if err := db.Model(&models.MenuItem{}).Where("stock_is_out_of_stock = ?", true).Count(&outOfStock).Error; err != nil {
		return nil, apperror.Wrap(err, "Failed to compute suggestions")
	}
	if outOfStock > 0 {
		add("out_of_stock", "medium", "Menu items out of stock",
			fmt.Sprintf("%d menu item(s) ran out of stock and were made unavailable.", outOfStock))
	}
	err = db.Model(&models.MenuItem{}).
		Where("stock_track_inventory = ? AND stock_is_out_of_stock = ? AND stock_low_stock_threshold > 0 AND stock_current_stock <= stock_low_stock_threshold", true, false).
		Count(&lowStock).Error
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute suggestions")
	}
	if lowStock > 0 {
		add("low_stock", "low", "Menu items running low",
			fmt.Sprintf("%d menu item(s) are at or below their low-stock threshold.", lowStock))
	}

	if st.OrdersToday.Change > 0 && st.OrdersToday.Previous > 0 {
		add("order_growth", "low", "Orders are up today",
			fmt.Sprintf("Orders are up %.1f%% on yesterday.", st.OrdersToday.Change))
	}
	if len(out) == 0 {
		add("all_clear", "low", "Everything looks good", "No operational issues detected.")
	}
	return out, nil
}
