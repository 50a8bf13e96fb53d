package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type UserService interface {
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, req UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error
	UpdateUserPrivileges(ctx context.Context, actor Actor, userID uuid.UUID, privilegeCodes []string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	GetRoles(ctx context.Context) ([]model.Role, error)
	GetPrivileges(ctx context.Context) ([]model.Privilege, error)
}

type CreateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	BirthDate   *string `json:"birth_date"` // Format: YYYY-MM-DD
	RoleID      uint    `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	BirthDate   *string `json:"birth_date"` // Format: YYYY-MM-DD
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	log           zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, log zerolog.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		log:           log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email, nil); err != nil {
		return nil, err
	}

	role, err := s.findRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   birthDate,
		RoleID:      &role.ID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.CreatedBy = actor.String()
	user.UpdatedBy = actor.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storageErr("create user", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", role.Code).Str("by", actor.String()).Msg("user created")
	return s.reload(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, req UpdateUserRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, storageErr("find user", err)
	}

	if !strings.EqualFold(req.Email, user.Email) {
		if err := s.ensureEmailFree(ctx, req.Email, &userID); err != nil {
			return nil, err
		}
	}

	role, err := s.findRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	roleChanged := user.RoleID == nil || *user.RoleID != role.ID

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.BirthDate = birthDate
	user.RoleID = &role.ID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.String()

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storageErr("update user", err)
	}

	// A role change resets the privilege set to the role's defaults
	if roleChanged {
		if err := s.userRepo.UpdatePrivileges(ctx, userID, role.Privileges); err != nil {
			return nil, storageErr("update user privileges", err)
		}
	}

	return s.reload(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	if actor.ID == userID {
		return apperrors.Conflict("you cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("user", userID)
		}
		return storageErr("find user", err)
	}

	hasSales, err := s.userRepo.HasTransactions(ctx, userID)
	if err != nil {
		return storageErr("check user transactions", err)
	}
	if hasSales {
		return apperrors.Conflict("user has recorded sales and cannot be deleted; deactivate the account instead")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("user", userID)
		}
		return storageErr("delete user", err)
	}

	s.log.Info().Str("user_id", userID.String()).Str("by", actor.String()).Msg("user deleted")
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, actor Actor, userID uuid.UUID, privilegeCodes []string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, storageErr("find user", err)
	}

	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, storageErr("find privileges", err)
	}
	if len(privileges) != len(uniqueStrings(privilegeCodes)) {
		return nil, apperrors.Validation("privileges", "one or more privilege codes are unknown")
	}

	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, storageErr("update user privileges", err)
	}

	user.UpdatedBy = actor.String()
	user.Role = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storageErr("update user", err)
	}

	return s.reload(ctx, userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, storageErr("find user", err)
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) GetRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list roles", err)
	}
	return roles, nil
}

func (s *userService) GetPrivileges(ctx context.Context) ([]model.Privilege, error) {
	privileges, err := s.privilegeRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list privileges", err)
	}
	return privileges, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, excludeID *uuid.UUID) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return storageErr("check email", err)
	}
	if exists {
		return apperrors.Conflict("email '%s' is already registered", email)
	}
	return nil
}

func (s *userService) findRole(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Validation("role_id", "selected role does not exist")
		}
		return nil, storageErr("find role", err)
	}
	return role, nil
}

func (s *userService) reload(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("reload user", err)
	}
	return user, nil
}

func parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, apperrors.Validation("birth_date", "birth_date must use YYYY-MM-DD")
	}
	return &parsed, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
