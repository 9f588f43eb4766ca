package app

import (
	"context"
	"log"
	"time"

	"blogfront/internal/client"
	"blogfront/internal/config"
	"blogfront/internal/database"
	"blogfront/internal/repository"
	"blogfront/internal/service"
	"blogfront/internal/session"
	"blogfront/internal/storage"
)

// App connects the view store, the optional image bucket and the REST
// gateway. The returned DB is nil when persistence is off.
func App(cfg *config.Config) (*database.DB, *service.Service, *session.Manager) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	// connection MinIO; uploads become data URLs without it
	var store storage.ImageStore
	if cfg.MinIO.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialise MinIO: %v", err)
		}
		store = minioClient
	}

	api, err := client.New(cfg.API, session.ContextTokens{})
	if err != nil {
		log.Fatalf("Failed to configure the API client: %v", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.SQLX())

	services := service.NewService(api, repo, store, cfg)
	sessions := session.NewManager(api.Users, cfg.JWTSecretKey)

	return db, services, sessions
}
