// Package testutil opens throwaway databases and fakes for package tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"food-delivery-admin-api/config"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Now is the instant FixedClock returns unless told otherwise.
var Now = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

// OpenTestDB returns a migrated in-memory SQLite database private to t.
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])
	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Clock is a settable time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func FixedClock(t time.Time) *Clock { return &Clock{t: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// MemoryStore is an in-process media.Store. Set Fail to make every call error.
type MemoryStore struct {
	mu      sync.Mutex
	Fail    bool
	Objects map[string][]byte
	Deleted []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}}
}

func (m *MemoryStore) Upload(_ context.Context, name string, r io.Reader) (media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return media.Asset{}, errors.New("memory store: upload failed")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return media.Asset{}, err
	}
	id := "test/" + uuid.NewString()[:8] + "-" + name
	m.Objects[id] = buf.Bytes()
	return media.Asset{URL: "https://img.test/" + id, ID: id}, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, id)
	if m.Fail {
		return errors.New("memory store: delete failed")
	}
	delete(m.Objects, id)
	return nil
}

// Password is the plain-text password of every seeded account.
const Password = "secret123"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// SeedAccount inserts an active account with the given role, created an hour before Now.
func SeedAccount(t testing.TB, db *gorm.DB, role models.Role, email string) *models.Account {
	t.Helper()
	acc := &models.Account{
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		IsAvailable:  role == models.RoleDriver,
		CreatedAt:    Now.Add(-time.Hour),
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

func SeedRestaurant(t testing.TB, db *gorm.DB, vendorID uint, name string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{
		VendorID:    vendorID,
		Name:        name,
		Cuisine:     "Italian",
		Address:     models.Address{Street: "1 Main St", City: "Springfield"},
		DeliveryFee: 5,
		IsActive:    true,
		Status:      models.RestaurantOpen,
		CreatedAt:   Now.Add(-time.Hour),
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func SeedMenuItem(t testing.TB, db *gorm.DB, restaurantID uint, name string, price float64) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        price,
		Category:     models.CategoryMainCourse,
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// SeedOrder inserts a bare order in the given status, created at the given time.
func SeedOrder(t testing.TB, db *gorm.DB, customerID, restaurantID uint, status models.OrderStatus, total float64, at time.Time) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderNumber:   "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerID:    customerID,
		RestaurantID:  restaurantID,
		TotalAmount:   total,
		Subtotal:      total,
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPending,
		Status:        status,
		CreatedAt:     at,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}
