package main

import (
	"fmt"
	"net/http"
	"os"

	"finman/internal/client"
	"finman/internal/config"
	"finman/internal/logger"
	"finman/internal/server"
	"finman/internal/view"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	httpClient := &http.Client{Timeout: appConfig.RequestTimeout}
	financeClient := client.NewFinanceClient(appConfig.FinanceAPIURL, appConfig.FinanceAPIKey, httpClient)

	assembler := view.NewAssembler(financeClient)
	coordinator := view.NewCoordinator(financeClient, assembler)

	router := server.NewRouter(assembler, coordinator, financeClient)

	log.Infof("Starting finman view server on port %s", appConfig.Port)
	log.Infof("Aggregating against finance API at %s", appConfig.FinanceAPIURL)
	return router.Run(":" + appConfig.Port)
}
