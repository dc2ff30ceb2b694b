package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/construction-projects/internal/auth"
	"github.com/nurpe/construction-projects/internal/config"
	"github.com/nurpe/construction-projects/internal/db"
	"github.com/nurpe/construction-projects/internal/draft"
	"github.com/nurpe/construction-projects/internal/events"
	"github.com/nurpe/construction-projects/internal/excel"
	"github.com/nurpe/construction-projects/internal/files"
	httphandler "github.com/nurpe/construction-projects/internal/http"
	"github.com/nurpe/construction-projects/internal/http/middleware"
	"github.com/nurpe/construction-projects/internal/logger"
	"github.com/nurpe/construction-projects/internal/pdf"
	"github.com/nurpe/construction-projects/internal/repository"
	"github.com/nurpe/construction-projects/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	projectRepo := repository.NewProjectRepository(database)
	sitePlanRepo := repository.NewSitePlanRepository(database)
	contractRepo := repository.NewContractRepository(database)
	stepRepo := repository.NewStepRepository(database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	draftStore := draft.NewStore(redisClient, cfg.Redis.DraftTTL)

	bus := events.NewBus()
	projectService := service.NewProjectService(projectRepo, sitePlanRepo, contractRepo, stepRepo, draftStore, bus, log)

	exporter := excel.NewGenerator()
	printer, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	fileStore, err := files.NewStore(cfg.Files.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file storage")
	}

	var remote httphandler.FileFetcher
	if cfg.Files.BaseURL != "" {
		remote = files.NewClient(cfg.Files.BaseURL, cfg.Files.RequestTimeout, files.StaticToken(cfg.Files.ServiceToken))
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(projectService, draftStore, exporter, printer, fileStore, remote, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting projects service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
