package services

import (
	"strings"
	"testing"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestaurantCreatesVendorForUnknownEmail(t *testing.T) {
	e := newEnv(t)
	r, err := e.svc.Restaurants.Create(e.ctx, RestaurantInput{
		Name:   "Luigi's",
		Vendor: &VendorRef{Name: "Luigi", Email: "Luigi@Example.com", Phone: "555-0199"},
	})
	require.NoError(t, err)
	require.NotNil(t, r.Vendor)
	assert.Equal(t, models.RoleVendor, r.Vendor.Role)
	assert.Equal(t, "luigi@example.com", r.Vendor.Email)
	assert.Equal(t, r.Vendor.ID, r.VendorID)
	assert.True(t, r.IsActive)
	assert.Equal(t, models.RestaurantOpen, r.Status)

	var stored models.Account
	require.NoError(t, e.db.Where("email = ?", "luigi@example.com").First(&stored).Error)
	assert.Equal(t, models.RoleVendor, stored.Role)
	assert.NotEmpty(t, stored.PasswordHash)

	// a second restaurant for the same email reuses the vendor
	r2, err := e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Luigi Express", Vendor: &VendorRef{Email: "luigi@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, r.VendorID, r2.VendorID)
	var vendors int64
	e.db.Model(&models.Account{}).Where("role = ?", models.RoleVendor).Count(&vendors)
	assert.Equal(t, int64(1), vendors)
}

func TestCreateRestaurantVendorResolution(t *testing.T) {
	e := newEnv(t)
	customer := testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	vendor := testutil.SeedAccount(t, e.db, models.RoleVendor, "vera@example.com")

	_, err := e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Alice's", Vendor: &VendorRef{Email: "alice@example.com"}})
	assertKind(t, err, apperror.KindConflict)

	_, err = e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Alice's", VendorID: customer.ID})
	assertKind(t, err, apperror.KindValidation)

	_, err = e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Nobody's"})
	assertKind(t, err, apperror.KindValidation)

	_, err = e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Ghost", VendorID: 9999})
	assertKind(t, err, apperror.KindNotFound)

	r, err := e.svc.Restaurants.Create(e.ctx, RestaurantInput{Name: "Vera's", VendorID: vendor.ID, Status: models.RestaurantBusy, IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.RestaurantBusy, r.Status)
	assert.False(t, r.IsActive)
}

func TestToggleStatusLeavesStatusAlone(t *testing.T) {
	e := newEnv(t)
	r := testutil.SeedRestaurant(t, e.db, 1, "Luigi's")

	got, err := e.svc.Restaurants.ToggleStatus(e.ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, models.RestaurantOpen, got.Status)

	got, err = e.svc.Restaurants.ToggleStatus(e.ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestUpdateRestaurant(t *testing.T) {
	e := newEnv(t)
	r := testutil.SeedRestaurant(t, e.db, 1, "Luigi's")
	closed := models.RestaurantClosed

	got, err := e.svc.Restaurants.Update(e.ctx, r.ID, RestaurantUpdate{
		Name:        ptr("Luigi's Trattoria"),
		DeliveryFee: ptr(3.5),
		Status:      &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Luigi's Trattoria", got.Name)
	assert.Equal(t, 3.5, got.DeliveryFee)
	assert.Equal(t, models.RestaurantClosed, got.Status)
	assert.True(t, got.IsActive)

	_, err = e.svc.Restaurants.Update(e.ctx, 9999, RestaurantUpdate{})
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteRestaurantGuardAndCascade(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Menu.SetImage(f.ctx, f.pizza.ID, "pizza.png", strings.NewReader("img"))
	require.NoError(t, err)
	_, err = f.svc.Restaurants.SetImage(f.ctx, f.restaurant.ID, "front.png", strings.NewReader("img"))
	require.NoError(t, err)
	o := f.create(t)

	assertKind(t, f.svc.Restaurants.Delete(f.ctx, f.restaurant.ID), apperror.KindConflict)

	_, err = f.svc.Orders.UpdateStatus(f.ctx, o.ID, StatusInput{Status: models.StatusCancelled}, 0)
	require.NoError(t, err)

	f.images.Fail = true // cleanup failures are only logged
	require.NoError(t, f.svc.Restaurants.Delete(f.ctx, f.restaurant.ID))

	var items int64
	f.db.Model(&models.MenuItem{}).Where("restaurant_id = ?", f.restaurant.ID).Count(&items)
	assert.Zero(t, items)
	assert.Len(t, f.images.Deleted, 2)

	_, err = f.svc.Restaurants.Get(f.ctx, f.restaurant.ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteVendorBlockedByRestaurantOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.create(t)
	err := f.svc.Accounts.Delete(f.ctx, models.RoleVendor, f.restaurant.VendorID)
	assertKind(t, err, apperror.KindConflict)
}

func TestRestaurantDetailAndList(t *testing.T) {
	f := newOrderFixture(t)
	f.salad.IsAvailable = false
	require.NoError(t, f.db.Save(f.salad).Error)
	f.create(t)

	d, err := f.svc.Restaurants.Detail(f.ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.MenuItemCount)
	assert.Equal(t, int64(1), d.AvailableItemCount)
	assert.Equal(t, int64(1), d.ActiveOrders)
	require.NotNil(t, d.Vendor)

	testutil.SeedRestaurant(t, f.db, 1, "Sushi Bar")
	list, err := f.svc.Restaurants.List(f.ctx, RestaurantFilter{Search: "sushi"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sushi Bar", list[0].Name)

	list, err = f.svc.Restaurants.List(f.ctx, RestaurantFilter{Cuisine: "italian", Status: models.RestaurantOpen})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
