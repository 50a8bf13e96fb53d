package service

import (
	"context"
	"errors"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	// Authenticate resolves a bearer token to the live user row, enforcing
	// the single-session token version.
	Authenticate(ctx context.Context, tokenString string) (*model.User, *jwt.Claims, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if err := validate(LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !isNotFound(err) {
			return nil, storageErr("find user", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		s.log.Info().Str("user_id", user.ID.String()).Msg("login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}

	roleCode := user.RoleCode()

	// Single session: a new token version invalidates tokens issued before
	tokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, tokenVersion); err != nil {
		return nil, storageErr("update session", err)
	}
	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	privileges := user.PrivilegeCodes()
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, roleCode, privileges, tokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", roleCode).Msg("user logged in")
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !isNotFound(err) {
			return storageErr("find user", err)
		}
		return ErrUserNotFound
	}

	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return storageErr("update password", err)
	}

	// Sign out every device that used the old password
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		return storageErr("rotate session", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*model.User, *jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if !isNotFound(err) {
			return nil, nil, storageErr("find user", err)
		}
		return nil, nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrSessionReplaced
	}
	return user, claims, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	user, _, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}
