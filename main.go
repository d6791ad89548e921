package main

import (
	"context"
	"flag"
	"time"

	"github.com/cppla/quill/config"
	"github.com/cppla/quill/models"
	"github.com/cppla/quill/routes"
	"github.com/cppla/quill/store"
	"github.com/cppla/quill/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	storage := flag.String("storage", "", "storage backend: mysql, postgres or memory")
	flag.Parse()

	cfg := config.LoadFrom(*configPath)
	if *storage != "" {
		cfg.Storage = *storage
		config.Set(cfg)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		utils.Sugar.Fatalf("invalid configuration: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open %s store: %v", cfg.Storage, err)
	}

	r := routes.SetupRouter(cfg, st)

	utils.Sugar.Infof("Starting server on port %s with %s storage (graceful)", cfg.AppPort, cfg.Storage)
	closeStore := func() {
		if err := st.Close(); err != nil {
			utils.Sugar.Errorf("close store: %v", err)
		}
	}
	if err := utils.GraceServer(":"+cfg.AppPort, r, closeStore); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

func openStore(cfg config.AppConfig) (store.Store, error) {
	switch cfg.Storage {
	case "memory":
		utils.Sugar.Warn("using in-memory storage; data is lost on restart")
		return store.NewMemory(), nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewPostgres(ctx, cfg.PostgresDSN, int32(cfg.PostgresMaxConns))
	default:
		db, err := config.OpenDatabase(cfg, &models.User{}, &models.Post{}, &models.Comment{})
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db), nil
	}
}
