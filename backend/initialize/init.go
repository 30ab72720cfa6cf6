package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskmanager/backend/app/controllers"
	"taskmanager/backend/app/db"
	jwtutil "taskmanager/backend/app/jwt"
	"taskmanager/backend/app/middleware"
	"taskmanager/backend/app/models"
	"taskmanager/backend/app/repo"
	"taskmanager/backend/app/services"
	"taskmanager/backend/config"
	"taskmanager/backend/global"
	"taskmanager/backend/router"

	"github.com/rs/cors"
	"gorm.io/gorm"
)

type App struct {
	Cfg       config.Config
	Store     *repo.Store
	Router    http.Handler
	Signer    *jwtutil.Signer
	Policy    *services.AccessPolicy
	Users     *services.UserService
	Tasks     *services.TaskService
	Auth      *services.AuthService
	Dashboard *services.DashboardService
}

// OpenStore connects the configured backend and prepares its schema.
func OpenStore(ctx context.Context, cfg config.Store) (*repo.Store, error) {
	switch cfg.Driver {
	case "sqlite", "mysql":
		var gdb *gorm.DB
		var err error
		if cfg.Driver == "mysql" {
			gdb, err = db.Connect(db.Config{Host: cfg.MySQL.Host, Port: cfg.MySQL.Port, User: cfg.MySQL.User, Password: cfg.MySQL.Pass, DBName: cfg.MySQL.Name})
		} else {
			gdb, err = db.OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := gdb.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repo.NewGormStore(gdb), nil
	case "redis":
		rdb, err := db.ConnectRedis(ctx, db.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return repo.NewRedisStore(rdb, cfg.Redis.Prefix), nil
	case "mongo":
		client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		store, err := repo.NewMongoStore(ctx, client, cfg.Mongo.Database)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Build wires services, controllers and the router over an open store.
func Build(cfg *config.Config, store *repo.Store) *App {
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: time.Duration(cfg.JWT.ExpMin) * time.Minute}
	userSvc := services.NewUserService(store.Users)
	taskSvc := services.NewTaskService(store.Tasks, store.Users)
	authSvc := services.NewAuthService(userSvc, signer)
	dashSvc := services.NewDashboardService(store.Tasks, store.Users)
	policy := services.NewAccessPolicy(signer, store.Users)

	h := router.NewRouter(router.Controllers{
		HTTP:      controllers.NewHTTPController(store),
		Auth:      controllers.NewAuthController(authSvc),
		Users:     controllers.NewUserController(userSvc),
		Tasks:     controllers.NewTaskController(taskSvc),
		Dashboard: controllers.NewDashboardController(dashSvc),
	}, &middleware.Auth{Policy: policy})
	h = cors.New(cors.Options{
		AllowedOrigins:       cfg.HTTP.CORSOrigins,
		AllowCredentials:     true,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type"},
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler(h)
	h = middleware.Recover(h)
	h = middleware.Logging(h)

	return &App{
		Cfg:       *cfg,
		Store:     store,
		Router:    h,
		Signer:    signer,
		Policy:    policy,
		Users:     userSvc,
		Tasks:     taskSvc,
		Auth:      authSvc,
		Dashboard: dashSvc,
	}
}

// Seed creates the bootstrap admin when no admin exists yet.
func (a *App) Seed(ctx context.Context) error {
	created, err := a.Users.EnsureAdmin(ctx, services.AdminSeed{
		Username: a.Cfg.Admin.Username,
		Email:    a.Cfg.Admin.Email,
		FullName: a.Cfg.Admin.FullName,
		Password: a.Cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	if !created {
		global.Logger.Debug().Msg("admin already present, skipping seed")
	}
	return nil
}
