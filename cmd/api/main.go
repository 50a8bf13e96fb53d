package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/handler"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/config"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
	loc := cfg.App.Location()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DB, log, cfg.App.Env == "development")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{},
		&model.Category{}, &model.Product{},
		&model.Transaction{}, &model.TransactionItem{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto migration failed")
	}

	// 3. Seed default privileges, roles, admin user and categories
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	seedDefaults(seedCtx, db, cfg.Seed, log)
	cancelSeed()

	// 4. Optional redis, dashboard cache and login limiter
	rdb := database.ConnectRedis(cfg.Redis, log)
	dashCache := cache.NewNoop()
	if rdb != nil {
		dashCache = cache.NewRedis(rdb, "pos")
	}
	loginLimiter, err := middleware.NewLimiter(cfg.Security.LoginRateLimit, rdb)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.Security.LoginRateLimit).Msg("invalid LOGIN_RATE_LIMIT")
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	saleService := service.NewSaleService(repository.NewTxRunner(db), wsHub, dashCache, loc, log)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, wsHub, dashCache, log)
	categoryService := service.NewCategoryService(categoryRepo, wsHub, dashCache, log)
	txService := service.NewTransactionService(txRepo, loc)
	dashService := service.NewDashboardService(reportRepo, dashCache, cfg.Dashboard.CacheTTL, loc, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, log)

	posHandler := handler.NewPOSHandler(catalogService, saleService)
	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	txHandler := handler.NewTransactionHandler(txService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(userService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	app.Get("/health-check", handler.HealthCheck(db))

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(loginLimiter), authHandler.Login)
	auth.Post("/reset-password", middleware.RateLimit(loginLimiter), authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService))
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)

	// POS
	protected.Get("/pos/products", middleware.RequirePrivilege(model.PrivSaleCreate), posHandler.GetProducts)
	protected.Post("/pos/checkout", middleware.RequirePrivilege(model.PrivSaleCreate), posHandler.Checkout)

	// Products
	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), productHandler.GetProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), productHandler.DeleteProduct)

	// Categories
	protected.Get("/categories", middleware.RequirePrivilege(model.PrivCategoryView), categoryHandler.GetCategories)
	protected.Get("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryView), categoryHandler.GetCategory)
	protected.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryCreate), categoryHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryUpdate), categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryDelete), categoryHandler.DeleteCategory)

	// Transactions
	protected.Get("/transactions", middleware.RequirePrivilege(model.PrivTransactionView), txHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege(model.PrivTransactionView), txHandler.GetTransaction)

	// User Management
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege(model.PrivUserUpdatePrivilege), userHandler.UpdateUserPrivileges)

	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Str("env", cfg.App.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	wsHub.Stop()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// errorHandler keeps fiber's own errors (404 route, 405, body limit) in the
// same {"error": ...} shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
