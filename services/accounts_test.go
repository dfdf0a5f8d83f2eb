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

func TestCreateCustomer(t *testing.T) {
	e := newEnv(t)
	acc, err := e.svc.Accounts.Create(e.ctx, models.RoleCustomer, AccountInput{
		Name:           "Alice",
		Email:          "  Alice@Example.com ",
		Phone:          "555-0100",
		Password:       "hunter22",
		SavedAddresses: []models.Address{{Label: "home", Street: "9 Elm St"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", acc.Email)
	assert.True(t, acc.IsActive)
	assert.NotEqual(t, "hunter22", acc.PasswordHash)

	got, err := e.svc.Accounts.Get(e.ctx, models.RoleCustomer, acc.ID)
	require.NoError(t, err)
	require.Len(t, got.SavedAddresses, 1)
	assert.Equal(t, "home", got.SavedAddresses[0].Label)

	_, err = e.svc.Accounts.Get(e.ctx, models.RoleDriver, acc.ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestCreateAccountUniqueness(t *testing.T) {
	e := newEnv(t)
	in := AccountInput{Name: "Alice", Email: "alice@example.com", Phone: "555-0100", Password: "hunter22"}
	_, err := e.svc.Accounts.Create(e.ctx, models.RoleCustomer, in)
	require.NoError(t, err)

	_, err = e.svc.Accounts.Create(e.ctx, models.RoleCustomer, AccountInput{Name: "Al", Email: "ALICE@example.com", Password: "hunter22"})
	assertKind(t, err, apperror.KindConflict)

	_, err = e.svc.Accounts.Create(e.ctx, models.RoleCustomer, AccountInput{Name: "Bob", Email: "bob@example.com", Phone: "555-0100", Password: "hunter22"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Phone")

	_, err = e.svc.Accounts.Create(e.ctx, models.RoleCustomer, AccountInput{Name: "Bob", Email: "bob@example.com", Password: "short"})
	assertKind(t, err, apperror.KindValidation)
}

func TestCreateDriverNeedsVehicle(t *testing.T) {
	e := newEnv(t)
	in := AccountInput{Name: "Dan", Email: "dan@example.com", Password: "hunter22"}
	_, err := e.svc.Accounts.Create(e.ctx, models.RoleDriver, in)
	assertKind(t, err, apperror.KindValidation)

	in.Vehicle = &models.VehicleInfo{Type: "rocket"}
	_, err = e.svc.Accounts.Create(e.ctx, models.RoleDriver, in)
	assertKind(t, err, apperror.KindValidation)

	in.Vehicle = &models.VehicleInfo{Type: "scooter", PlateNumber: "AB-123"}
	acc, err := e.svc.Accounts.Create(e.ctx, models.RoleDriver, in)
	require.NoError(t, err)
	assert.True(t, acc.IsAvailable)

	got, err := e.svc.Accounts.Get(e.ctx, models.RoleDriver, acc.ID)
	require.NoError(t, err)
	p, ok := got.Profile().(models.DriverProfile)
	require.True(t, ok)
	assert.Equal(t, "AB-123", p.Vehicle.PlateNumber)
}

func TestUpdateAccount(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAccount(t, e.db, models.RoleCustomer, "taken@example.com")
	drv := testutil.SeedAccount(t, e.db, models.RoleDriver, "dan@example.com")

	got, err := e.svc.Accounts.Update(e.ctx, models.RoleDriver, drv.ID, AccountUpdate{
		Name:        ptr("Daniel"),
		IsAvailable: ptr(false),
		CurrentLat:  ptr(51.5),
		Vehicle:     &models.VehicleInfo{Type: "car"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Daniel", got.Name)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, "car", got.Vehicle.Data().Type)

	_, err = e.svc.Accounts.Update(e.ctx, models.RoleDriver, drv.ID, AccountUpdate{Email: ptr("taken@example.com")})
	assertKind(t, err, apperror.KindConflict)

	_, err = e.svc.Accounts.Update(e.ctx, models.RoleDriver, drv.ID, AccountUpdate{Email: ptr("dan@example.com")})
	assert.NoError(t, err, "keeping the same email is not a conflict")
}

func TestDeleteAccountGuard(t *testing.T) {
	f := newOrderFixture(t)
	o := f.create(t)

	assertKind(t, f.svc.Accounts.Delete(f.ctx, models.RoleCustomer, f.customer.ID), apperror.KindConflict)

	f.withDelivery(t, o)
	err := f.svc.Accounts.Delete(f.ctx, models.RoleDriver, f.driver.ID)
	assertKind(t, err, apperror.KindConflict)

	_, err = f.svc.Orders.UpdateStatus(f.ctx, o.ID, StatusInput{Status: models.StatusDelivered}, f.admin.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Accounts.Delete(f.ctx, models.RoleDriver, f.driver.ID))
	require.NoError(t, f.svc.Accounts.Delete(f.ctx, models.RoleCustomer, f.customer.ID))

	// the finished order survives with dangling references
	got, err := f.svc.Orders.Get(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Customer)
	assert.Nil(t, got.Driver)
}

func TestDeleteDriverBlockedByDeliveryAlone(t *testing.T) {
	f := newOrderFixture(t)
	o := f.create(t)
	f.withDelivery(t, o)

	// move the order to another driver; the old delivery record still points at ours
	other := testutil.SeedAccount(t, f.db, models.RoleDriver, "eve@example.com")
	_, err := f.svc.Orders.AssignDriver(f.ctx, o.ID, AssignDriverInput{DriverID: other.ID}, 0)
	require.NoError(t, err)

	err = f.svc.Accounts.Delete(f.ctx, models.RoleDriver, f.driver.ID)
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "deliveries")
}

func TestAccountSummary(t *testing.T) {
	f := newOrderFixture(t)
	o := f.create(t)
	f.withDelivery(t, o)
	_, err := f.svc.Orders.UpdateStatus(f.ctx, o.ID, StatusInput{Status: models.StatusDelivered}, 0)
	require.NoError(t, err)
	f.create(t)

	sum, err := f.svc.Accounts.Summary(f.ctx, f.customer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Orders)
	assert.Equal(t, int64(1), sum.ActiveOrders)
	assert.Equal(t, 30.0, sum.TotalSpent)

	sum, err = f.svc.Accounts.Summary(f.ctx, f.driver)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Deliveries)
	assert.Equal(t, int64(1), sum.CompletedDeliveries)
}

func TestListAccounts(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	bob := testutil.SeedAccount(t, e.db, models.RoleCustomer, "bob@example.com")
	testutil.SeedAccount(t, e.db, models.RoleDriver, "dan@example.com")
	require.NoError(t, e.db.Model(bob).Update("is_active", false).Error)

	all, err := e.svc.Accounts.List(e.ctx, models.RoleCustomer, AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := e.svc.Accounts.List(e.ctx, models.RoleCustomer, AccountFilter{IsActive: ptr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "alice@example.com", active[0].Email)

	found, err := e.svc.Accounts.List(e.ctx, models.RoleCustomer, AccountFilter{Search: "BOB"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].ID)
}

func TestSetAvatarReplacesPrevious(t *testing.T) {
	e := newEnv(t)
	c := testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")

	first, err := e.svc.Accounts.SetAvatar(e.ctx, models.RoleCustomer, c.ID, "a.png", strings.NewReader("one"))
	require.NoError(t, err)
	firstID := first.AvatarID

	second, err := e.svc.Accounts.SetAvatar(e.ctx, models.RoleCustomer, c.ID, "b.png", strings.NewReader("two"))
	require.NoError(t, err)
	assert.NotEqual(t, firstID, second.AvatarID)
	assert.Equal(t, []string{firstID}, e.images.Deleted)

	e.images.Fail = true
	_, err = e.svc.Accounts.SetAvatar(e.ctx, models.RoleCustomer, c.ID, "c.png", strings.NewReader("three"))
	assertKind(t, err, apperror.KindUpstream)
	got, err := e.svc.Accounts.Get(e.ctx, models.RoleCustomer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, second.AvatarURL, got.AvatarURL)
}
