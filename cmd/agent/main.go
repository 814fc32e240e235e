package main

import (
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/client"
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/service"
	"github.com/fixit-helpdesk/fixit/internal/store"
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

	log := logger.NewAgentLogger("fixit-agent")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	agentCfg, err := config.NewAgentConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid agent configuration")
	}

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: agentCfg.Adapter.ServerURL,
		Timeout: agentCfg.Adapter.RequestTimeout,
	})

	storages, err := store.NewClientStorages(cfg.Storage.Local, cfg.Sync, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing local storage")
	}
	defer storages.Replica.Close()

	services := service.NewClientServices(storages, serverAdapter, cfg, log)

	app := client.NewApp(services, serverAdapter, storages, cfg, log)
	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("agent stopped with error")
	}
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
