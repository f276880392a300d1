package handlers

import (
	"ramtoram-console-service/internal/config"
	"ramtoram-console-service/internal/queue"
	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *pgxpool.Pool
	Logger  *zap.Logger
	Config  config.Config
	Queue   *queue.Client
	Reports *report.Service
	Objects *storage.ObjectStore
}
