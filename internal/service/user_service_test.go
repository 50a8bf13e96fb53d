package service

import (
	"context"
	"testing"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ID: uuid.New(), Name: "Admin"}

	t.Run("own account", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := NewUserService(users, nil, nil, zerolog.Nop())

		err := svc.DeleteUser(ctx, admin, admin.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("cashier with sales", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := NewUserService(users, nil, nil, zerolog.Nop())
		cashier := &model.User{Email: "kasir@example.com"}
		cashier.ID = uuid.New()
		users.On("FindByID", ctx, cashier.ID).Return(cashier, nil)
		users.On("HasTransactions", ctx, cashier.ID).Return(true, nil)

		err := svc.DeleteUser(ctx, admin, cashier.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused account", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := NewUserService(users, nil, nil, zerolog.Nop())
		id := uuid.New()
		users.On("FindByID", ctx, id).Return(&model.User{}, nil)
		users.On("HasTransactions", ctx, id).Return(false, nil)
		users.On("Delete", ctx, id).Return(nil)

		require.NoError(t, svc.DeleteUser(ctx, admin, id))
		users.AssertExpectations(t)
	})
}

func TestUpdateUserPrivileges_UnknownCode(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	privileges := new(MockPrivilegeRepo)
	svc := NewUserService(users, privileges, nil, zerolog.Nop())

	user := &model.User{Email: "kasir@example.com"}
	user.ID = uuid.New()
	codes := []string{model.PrivSaleCreate, "sale:refund"}

	users.On("FindByID", ctx, user.ID).Return(user, nil)
	privileges.On("FindByCodes", ctx, codes).Return([]model.Privilege{{Code: model.PrivSaleCreate}}, nil)

	_, err := svc.UpdateUserPrivileges(ctx, Actor{ID: uuid.New()}, user.ID, codes)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "privileges", verr.Field)
	users.AssertNotCalled(t, "UpdatePrivileges", mock.Anything, mock.Anything, mock.Anything)
}
