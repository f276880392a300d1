package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ramtoram-console-service/internal/config"
	"ramtoram-console-service/internal/db"
	httpapi "ramtoram-console-service/internal/http"
	"ramtoram-console-service/internal/logger"
	"ramtoram-console-service/internal/queue"
	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/internal/storage"
	"ramtoram-console-service/internal/store"
	"ramtoram-console-service/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		// A wrong zone would silently shift every "today" boundary, so refuse
		// to start instead of defaulting.
		log.Fatal("invalid report timezone", zap.String("timezone", cfg.ReportTimezone), zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	records := store.New(pool)
	reports := report.NewService(records, loc)

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without marketing worker", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			if err := queue.EnsureMarketingTopology(ctx, qc); err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq marketing topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq marketing topology failed; continuing without marketing worker", zap.Error(err))
				_ = qc.Close()
				qc = nil
			}
		}

		queueClient = qc
		if qc != nil {
			defer qc.Close()
		}

		if queueClient != nil {
			if cfg.RabbitMQWorkerMode == "daemon" {
				log.Info("marketing worker enabled", zap.String("queue", queue.MarketingQueue))
				go func() {
					err := queueClient.ConsumeWithRetry(queue.MarketingQueue, func(ctx context.Context, routingKey string, body []byte) error {
						return queue.ProcessReservationEvent(ctx, pool, routingKey, body)
					}, 5, 5*time.Second)
					if err != nil {
						log.Error("marketing consumer stopped", zap.Error(err))
					}
				}()
			} else {
				log.Info("marketing worker disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
			}
		}
	} else {
		log.Info("marketing worker disabled (RABBITMQ_URL is empty)")
	}

	var objects *storage.ObjectStore
	if cfg.ObjectStoreBucket != "" {
		objects, err = storage.NewObjectStore(ctx, storage.Config{
			Endpoint:        cfg.ObjectStoreEndpoint,
			Region:          cfg.ObjectStoreRegion,
			AccessKeyID:     cfg.ObjectStoreAccessKeyID,
			SecretAccessKey: cfg.ObjectStoreSecretAccessKey,
			Bucket:          cfg.ObjectStoreBucket,
			PublicBaseURL:   cfg.ObjectStorePublicBaseURL,
			StorageClass:    cfg.ObjectStoreStorageClass,
		})
		if err != nil {
			log.Warn("object store unavailable; photo upload and report archive disabled", zap.Error(err))
			objects = nil
		}
	}

	wsServer := ws.New(pool, log, cfg, reports)
	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(pool, log, cfg, reports, queueClient, objects, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("console service listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("timezone", cfg.ReportTimezone),
		)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
