package service

import (
	"context"
	"testing"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCashierUser(t *testing.T, password string) *model.User {
	t.Helper()
	u := &model.User{
		Email:    "kasir@example.com",
		FullName: "Kasir Satu",
		IsActive: true,
		Role:     &model.Role{Code: model.RoleCashier},
		Privileges: []model.Privilege{
			{Code: model.PrivSaleCreate},
			{Code: model.PrivTransactionView},
		},
	}
	u.ID = uuid.New()
	require.NoError(t, u.SetPassword(password))
	return u
}

func newAuthFixture() (*MockUserRepo, *jwt.Manager, AuthService) {
	repo := new(MockUserRepo)
	tokens := jwt.NewManager("auth-test-secret", "pos-test", time.Hour)
	return repo, tokens, NewAuthService(repo, tokens, zerolog.Nop())
}

func TestLogin_RotatesTokenVersion(t *testing.T) {
	ctx := context.Background()
	repo, tokens, svc := newAuthFixture()
	user := newCashierUser(t, "rahasia123")

	var issued string
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("UpdateTokenVersion", ctx, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { issued = args.String(2) }).Return(nil)
	repo.On("TouchLastLogin", ctx, user.ID).Return(nil)

	resp, err := svc.Login(ctx, user.Email, "rahasia123")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.PrivSaleCreate, model.PrivTransactionView}, resp.Privileges)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleCashier, claims.RoleCode)
	assert.NotEmpty(t, issued)
	assert.Equal(t, issued, claims.TokenVersion)
	repo.AssertExpectations(t)
}

func TestLogin_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		repo, _, svc := newAuthFixture()
		user := newCashierUser(t, "rahasia123")
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, user.Email, "salah")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdateTokenVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo, _, svc := newAuthFixture()
		repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo, _, svc := newAuthFixture()
		user := newCashierUser(t, "rahasia123")
		user.IsActive = false
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, user.Email, "rahasia123")
		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, err := svc.Login(ctx, "not-an-email", "x")
		assert.Error(t, err)
	})
}

func TestAuthenticate_SessionReplaced(t *testing.T) {
	ctx := context.Background()
	repo, tokens, svc := newAuthFixture()
	user := newCashierUser(t, "rahasia123")
	user.TokenVersion = "current"

	stale, err := tokens.GenerateToken(user.ID, user.Email, user.FullName, model.RoleCashier, nil, "previous")
	require.NoError(t, err)
	fresh, err := tokens.GenerateToken(user.ID, user.Email, user.FullName, model.RoleCashier, nil, "current")
	require.NoError(t, err)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	_, _, err = svc.Authenticate(ctx, stale)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	got, claims, err := svc.Authenticate(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "current", claims.TokenVersion)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, _, svc := newAuthFixture()
	_, _, err := svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates session", func(t *testing.T) {
		repo, _, svc := newAuthFixture()
		user := newCashierUser(t, "lama123")
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		repo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)
		repo.On("UpdateTokenVersion", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

		err := svc.ResetPassword(ctx, ResetPasswordRequest{Email: user.Email, OldPassword: "lama123", NewPassword: "baru456"})
		require.NoError(t, err)
		assert.True(t, user.CheckPassword("baru456"))
		repo.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		repo, _, svc := newAuthFixture()
		user := newCashierUser(t, "lama123")
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)

		err := svc.ResetPassword(ctx, ResetPasswordRequest{Email: user.Email, OldPassword: "keliru", NewPassword: "baru456"})
		assert.ErrorIs(t, err, ErrWrongPassword)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
