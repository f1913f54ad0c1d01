package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/accounts"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/auth"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/categories"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/config"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/database"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/middleware"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/questions"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/session"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	secret := []byte(cfg.JWTSecret)
	cookies := auth.CookieSettings{Domain: cfg.CookieDomain, Secure: cfg.Env == "production"}
	sessions := session.NewStore(rdb)

	// Stores and services
	categoryStore := categories.NewStore(db)
	categoryService := categories.NewService(categoryStore, logger)
	questionStore := questions.NewStore(db)
	questionService := questions.NewService(questionStore, categoryService, logger)

	userStore := users.NewStore(db)
	accountStore := accounts.NewStore(db)
	profiles := users.NewProfileRegistry(db)
	userService := users.NewService(db, userStore, accountStore, profiles, sessions, secret, logger)
	accountService := accounts.NewService(accountStore, userStore, accounts.NewProviders(cfg), logger)

	// Handlers
	categoryHandler := categories.NewHandler(categoryService, logger)
	questionHandler := questions.NewHandler(questionService, logger)
	userHandler := users.NewHandler(userService, cookies, logger)
	accountHandler := accounts.NewHandler(accountService, logger)

	authMiddleware := middleware.NewAuth(sessions, secret, cookies, logger)

	// Router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.Respond(w, http.StatusOK, map[string]interface{}{
			"message": "Clashers Academy API is up",
		})
	}).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMiddleware.Deserialize)

	protected := func(prefix string) *mux.Router {
		sub := apiRouter.PathPrefix(prefix).Subrouter()
		sub.Use(authMiddleware.RequireUser)
		return sub
	}

	userHandler.RegisterRoutes(
		apiRouter.PathPrefix("/users").Subrouter(),
		protected("/users"),
	)
	accountHandler.RegisterRoutes(protected("/auth/accounts"))
	categoryHandler.RegisterRoutes(protected("/cms/categories"))
	questionHandler.RegisterRoutes(protected("/cms/questions"))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(":"+cfg.Port, c.Handler(r)); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
