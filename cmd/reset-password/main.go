package main

import (
	"context"
	"flag"
	"time"

	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/config"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// reset-password sets a user's password directly in the database and signs
// out their active session. Intended for locked-out administrators.
func main() {
	email := flag.String("email", "", "account email (defaults to SEED_ADMIN_EMAIL)")
	password := flag.String("password", "", "new password (defaults to SEED_ADMIN_PASSWORD)")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	if *email == "" {
		*email = cfg.Seed.AdminEmail
	}
	if *password == "" {
		*password = cfg.Seed.AdminPassword
	}
	if len(*password) < 6 {
		log.Fatal().Msg("password must be at least 6 characters")
	}

	db, err := database.ConnectDB(cfg.DB, log, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}

	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	if err := users.UpdateTokenVersion(ctx, user.ID, uuid.NewString()); err != nil {
		log.Fatal().Err(err).Msg("failed to revoke existing session")
	}

	log.Info().Str("email", *email).Msg("password reset, existing session revoked")
}
