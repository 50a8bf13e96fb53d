package main

import (
	"context"
	"errors"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/config"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// seedDefaults creates default privileges, roles, admin user and categories
// if they don't exist. Failures are logged, not fatal.
func seedDefaults(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, log zerolog.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	// 1. Privileges first, roles pick from them
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to seed privileges")
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to seed roles")
	}

	// 2. Default admin user with MASTER_ADMIN role
	seedAdmin(ctx, userRepo, roleRepo, cfg, log)

	// 3. Starter retail categories
	if err := categoryRepo.SeedDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to seed categories")
	}
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository, roleRepo repository.RoleRepository, cfg config.SeedConfig, log zerolog.Logger) {
	_, err := userRepo.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Msg("failed to look up admin user")
		return
	}

	masterRole, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		log.Warn().Err(err).Msg("MASTER_ADMIN role missing, admin user not created")
		return
	}

	admin := &model.User{
		Email:      cfg.AdminEmail,
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("admin user created (MASTER_ADMIN), change the password after first login")
}
