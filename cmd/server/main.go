package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/instrumental/internal/audit"
	"github.com/Schera-ole/instrumental/internal/backend"
	"github.com/Schera-ole/instrumental/internal/config"
	"github.com/Schera-ole/instrumental/internal/handler"
	"github.com/Schera-ole/instrumental/internal/migration"
	models "github.com/Schera-ole/instrumental/internal/model"
	"github.com/Schera-ole/instrumental/internal/repository"
)

func main() {
	serverConfig, err := config.NewServerConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	var storage repository.Repository
	if serverConfig.DatabaseDSN != "" {
		if err := migration.RunMigrations(serverConfig.DatabaseDSN, serverConfig.MigrationsURL, logger); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
		dbStorage, err := repository.NewDBStorage(serverConfig.DatabaseDSN)
		if err != nil {
			logger.Fatalf("opening database storage: %v", err)
		}
		storage = dbStorage
	} else {
		storage = repository.NewMemStorage()
	}
	defer storage.Close()

	var noticeLogger backend.NoticeLogger
	events := make(chan models.NoticeEvent, 100)
	var subs []chan<- models.NoticeEvent
	if serverConfig.AuditFile != "" {
		fileChan := make(chan models.NoticeEvent, 100)
		subs = append(subs, fileChan)
		go audit.FileSubscriber(logger, fileChan, serverConfig.AuditFile)
	}
	if serverConfig.AuditURL != "" {
		urlChan := make(chan models.NoticeEvent, 100)
		subs = append(subs, urlChan)
		go audit.URLSubscriber(logger, urlChan, serverConfig.AuditURL)
	}
	if len(subs) > 0 {
		go audit.Broadcaster(logger, events, subs...)
		noticeLogger = audit.NewNoticeLogger(events, logger)
	}

	ingest := backend.NewServer(serverConfig.APIKey, storage, logger, noticeLogger)
	if err := ingest.Listen(serverConfig.TCPAddress); err != nil {
		logger.Fatalf("starting ingest listener: %v", err)
	}

	httpServer := &http.Server{
		Addr:    serverConfig.HTTPAddress,
		Handler: handler.Router(storage, logger),
	}
	go func() {
		logger.Infof("read api listening on %s", serverConfig.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("read api failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("read api shutdown: %v", err)
	}
	if err := ingest.Close(); err != nil {
		logger.Warnf("ingest shutdown: %v", err)
	}
	close(events)
}
