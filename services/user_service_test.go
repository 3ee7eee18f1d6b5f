package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/models"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "s3cret-pass",
		FullName: "Front Desk One",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	got, err := svc.Authenticate("reception1", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("reception1", "wrong-pass")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Authenticate("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(CreateUserInput{
		Username: "ab",
		Email:    "ab@hotel.local",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "not-an-email",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "short",
		Role:     models.RoleStaff,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "s3cret-pass",
		Role:     "manager",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "other@hotel.local",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateUserPasswordRehash(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Update(user.ID, map[string]interface{}{"password": "short"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(user.ID, map[string]interface{}{"password": "new-s3cret"})
	require.NoError(t, err)

	_, err = svc.Authenticate("reception1", "s3cret-pass")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Authenticate("reception1", "new-s3cret")
	assert.NoError(t, err)
}

func TestDeleteUserDeactivates(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Create(CreateUserInput{
		Username: "reception1",
		Email:    "reception1@hotel.local",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID))

	_, err = svc.GetByID(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate("reception1", "s3cret-pass")
	assert.ErrorIs(t, err, ErrValidation)

	// attribution checks no longer accept the account
	assert.ErrorIs(t, activeStaffExists(db, user.ID), ErrNotFound)
}
