package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/filedrive/filedrive/internal/config"
	"github.com/filedrive/filedrive/internal/db"
	"github.com/filedrive/filedrive/internal/repository"
	"github.com/filedrive/filedrive/internal/service"
	"github.com/filedrive/filedrive/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	IdentityService *service.IdentityService
	FileService     *service.FileService
	FavoriteService *service.FavoriteService
	WebhookService  *service.WebhookService
	SweepService    *service.SweepService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)
	favoriteRepository := repository.NewFavoriteRepository(database)

	// Blob storage
	blobStore, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	identityService := service.NewIdentityService(userRepository)
	fileService := service.NewFileService(fileRepository, blobStore)
	favoriteService := service.NewFavoriteService(favoriteRepository, fileRepository)
	webhookService := service.NewWebhookService(cfg.IdentityWebhookSecret, identityService)
	sweepService := service.NewSweepService(fileRepository, favoriteRepository, blobStore, cfg.RetentionWindow, cfg.SweepInterval)

	return &App{
		Cfg:             cfg,
		DB:              database,
		IdentityService: identityService,
		FileService:     fileService,
		FavoriteService: favoriteService,
		WebhookService:  webhookService,
		SweepService:    sweepService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
