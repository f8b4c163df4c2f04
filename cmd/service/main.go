package main

import (
	"fmt"
	"os"

	"gitlab.com/dirk.krummacker/contacts-web/internal/config"
	"gitlab.com/dirk.krummacker/contacts-web/internal/logging"
	"gitlab.com/dirk.krummacker/contacts-web/internal/service"
	"gitlab.com/dirk.krummacker/contacts-web/internal/store"
	"go.uber.org/zap"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sqlDB, err := store.Open(cfg.DSN())
	if err != nil {
		logger.Fatal("Could not open database", zap.Error(err))
	}
	contacts, err := store.New(sqlDB)
	if err != nil {
		logger.Fatal("Could not prepare statements", zap.Error(err))
	}
	defer contacts.Close()

	router, err := service.New(contacts, logger).SetupHttpRouter(cfg.RequestLogging())
	if err != nil {
		logger.Fatal("Could not set up router", zap.Error(err))
	}
	logger.Info("Listening", zap.String("addr", cfg.Addr()))
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
