package services

import (
	"testing"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/models"
	"food-delivery-admin-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	acc, err := e.svc.Auth.Register(e.ctx, RegisterInput{Name: "Root", Email: "Root@Example.com", Password: "admin1234"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)

	_, err = e.svc.Auth.Register(e.ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "admin1234"}, models.RoleAdmin)
	assertKind(t, err, apperror.KindConflict)

	got, err := e.svc.Auth.Login(e.ctx, LoginInput{Email: "root@example.com", Password: "admin1234"})
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(testutil.Now))

	stored, err := e.svc.Auth.Current(e.ctx, acc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestRegisterAfterFirstAdminNeedsAdmin(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAccount(t, e.db, models.RoleAdmin, "root@example.com")
	in := RegisterInput{Name: "Mallory", Email: "mallory@example.com", Password: "hunter222"}

	_, err := e.svc.Auth.Register(e.ctx, in, "")
	assertKind(t, err, apperror.KindUnauthorized)
	_, err = e.svc.Auth.Register(e.ctx, in, models.RoleCustomer)
	assertKind(t, err, apperror.KindForbidden)

	var n int64
	require.NoError(t, e.db.Model(&models.Account{}).Where("email = ?", in.Email).Count(&n).Error)
	assert.Zero(t, n)

	acc, err := e.svc.Auth.Register(e.ctx, in, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAccount(t, e.db, models.RoleCustomer, "alice@example.com")
	admin := testutil.SeedAccount(t, e.db, models.RoleAdmin, "admin@example.com")

	_, err := e.svc.Auth.Login(e.ctx, LoginInput{Email: "nobody@example.com", Password: testutil.Password})
	assertKind(t, err, apperror.KindUnauthorized)

	_, err = e.svc.Auth.Login(e.ctx, LoginInput{Email: "admin@example.com", Password: "wrong-pass1"})
	assertKind(t, err, apperror.KindUnauthorized)

	_, err = e.svc.Auth.Login(e.ctx, LoginInput{Email: "alice@example.com", Password: testutil.Password})
	assertKind(t, err, apperror.KindForbidden)

	require.NoError(t, e.db.Model(admin).Update("is_active", false).Error)
	_, err = e.svc.Auth.Login(e.ctx, LoginInput{Email: "admin@example.com", Password: testutil.Password})
	assertKind(t, err, apperror.KindForbidden)

	_, err = e.svc.Auth.Current(e.ctx, admin.ID)
	assertKind(t, err, apperror.KindUnauthorized)
	_, err = e.svc.Auth.Current(e.ctx, 9999)
	assertKind(t, err, apperror.KindUnauthorized)
}
