package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/server"
)

var BUILD_VERSION = "dev"

var listenAddr = flag.String("listen", ":8000", "address to listen on")
var dbPath = flag.String("db", "qacoach.db", "path to the sqlite database (\":memory:\" for ephemeral)")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Println("Usage of qacoachd:")
		flag.PrintDefaults()
		return
	}

	logger, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := server.NewStore(*dbPath, logger)
	if err != nil {
		logger.Error("opening store failed", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	handler := server.NewHandler(store, logger)
	router := server.NewRouter(handler, logger)

	logger.Info("qacoachd listening",
		zap.String("addr", *listenAddr),
		zap.String("db", *dbPath))
	if err := http.ListenAndServe(*listenAddr, router); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func initializeLogger() (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if value := os.Getenv("QACOACH_LOG_LEVEL"); value != "" {
		if parsed, err := zap.ParseAtomicLevel(value); err == nil {
			logLevel = parsed
		}
	}

	config := zap.NewDevelopmentConfig()
	config.Level = logLevel
	return config.Build()
}
