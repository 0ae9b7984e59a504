package main

import (
	"context"
	"fmt"
	"log"
	"time"

	echoapi "github.com/trezcool/proctor/apps/api/echo"
	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
	logsvc "github.com/trezcool/proctor/services/logger"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger, err := logsvc.NewLogger("API", conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// browser sessions; their tokens reach the backend through each request's context
	sessions := session.NewRegistry(sessionCleanupInterval)
	svcs, err := shared.NewServices(shared.Deps{Conf: conf, Logger: logger, Sessions: sessions})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{
		"env":       conf.Env,
		"mock_mode": conf.API.MockMode,
		"backend":   conf.API.BaseURL,
	})
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.Deps{
		Conf:     conf,
		Logger:   logger,
		Services: svcs,
		Sessions: sessions,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
