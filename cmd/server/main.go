package main

import (
	"context"
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/config"
	myHTTP "github.com/fixit-helpdesk/fixit/internal/handler/http"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/notify"
	"github.com/fixit-helpdesk/fixit/internal/server"
	"github.com/fixit-helpdesk/fixit/internal/service"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/workers"
	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	_ = godotenv.Load()

	log := logger.NewLogger("fixit-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)

	notifier := notify.NewWebhookNotifier(cfg.Notify, log)
	defer notifier.Close()

	services := service.NewServices(storages, notifier, cfg, log)
	defer services.OTPService.Close()

	workers.NewWorkers(notifier, services.OTPService).Run()

	handler := myHTTP.NewHandler(services, cfg.App.Version, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
