package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ramtoram-console-service/internal/auth"
	"ramtoram-console-service/internal/config"
	"ramtoram-console-service/internal/report"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	DB      *pgxpool.Pool
	Logger  *zap.Logger
	Config  config.Config
	Reports *report.Service

	dashboard *dashboardRealtime
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config, reports *report.Service) *Server {
	srv := &Server{DB: db, Logger: logger, Config: cfg, Reports: reports}
	srv.dashboard = newDashboardRealtime(db, logger, reports, cfg.WSPollInterval)
	return srv
}

type wsClient struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteJSON(value)
}

// dashboardSummary is the live slice of the report cheap enough to poll
// every few seconds. The full report stays on the HTTP endpoint.
type dashboardSummary struct {
	TodayReservationCount int       `json:"todayReservationCount"`
	TodaySalesTotal       float64   `json:"todaySalesTotal"`
	LastReservationAt     time.Time `json:"lastReservationAt"`
	LastSaleAt            time.Time `json:"lastSaleAt"`
}

type dashboardRealtime struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	reports  *report.Service
	interval time.Duration

	started sync.Once
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	last    dashboardSummary
}

func newDashboardRealtime(db *pgxpool.Pool, logger *zap.Logger, reports *report.Service, interval time.Duration) *dashboardRealtime {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &dashboardRealtime{
		db:       db,
		logger:   logger,
		reports:  reports,
		interval: interval,
		clients:  make(map[*wsClient]struct{}),
	}
}

func (dr *dashboardRealtime) ensureStarted() {
	dr.started.Do(func() {
		go dr.pollLoop(context.Background())
	})
}

func (dr *dashboardRealtime) subscribe(client *wsClient) (unsubscribe func()) {
	dr.mu.Lock()
	dr.clients[client] = struct{}{}
	dr.mu.Unlock()

	return func() {
		dr.mu.Lock()
		delete(dr.clients, client)
		dr.mu.Unlock()
	}
}

func (dr *dashboardRealtime) broadcast(message any) {
	dr.mu.RLock()
	clients := make([]*wsClient, 0, len(dr.clients))
	for c := range dr.clients {
		clients = append(clients, c)
	}
	dr.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			dr.mu.Lock()
			delete(dr.clients, c)
			dr.mu.Unlock()
		}
	}
}

func (dr *dashboardRealtime) fetchSummary(ctx context.Context) (dashboardSummary, error) {
	loc := dr.reports.Location()
	now := time.Now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var summary dashboardSummary
	err := dr.db.QueryRow(ctx, `
		select
			(select count(*) from reservations where datetime >= $1 and datetime < $2),
			(select coalesce(sum(total), 0) from sales where created_at >= $1 and created_at < $2),
			(select coalesce(max(created_at), to_timestamp(0)) from reservations),
			(select coalesce(max(created_at), to_timestamp(0)) from sales)
	`, dayStart, dayEnd).Scan(
		&summary.TodayReservationCount,
		&summary.TodaySalesTotal,
		&summary.LastReservationAt,
		&summary.LastSaleAt,
	)
	return summary, err
}

func (dr *dashboardRealtime) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(dr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		dr.mu.RLock()
		idle := len(dr.clients) == 0
		dr.mu.RUnlock()
		if idle {
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, dr.interval)
		summary, err := dr.fetchSummary(fetchCtx)
		cancel()
		if err != nil {
			dr.logger.Warn("dashboard summary poll failed", zap.Error(err))
			continue
		}

		dr.mu.Lock()
		changed := summary != dr.last
		if changed {
			dr.last = summary
		}
		dr.mu.Unlock()

		if changed {
			dr.broadcast(map[string]any{"type": "dashboard.summary", "data": summary})
		}
	}
}

// DashboardWS streams dashboard summary updates. The token rides in a query
// parameter because browsers cannot set headers on websocket upgrades.
func (s *Server) DashboardWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	claims, err := auth.VerifyAccessToken(r.URL.Query().Get("token"), s.Config.JWTSecret)
	if err != nil || !auth.RoleAllows(claims.Role, auth.SectionReports) {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	s.dashboard.ensureStarted()
	ctx := r.Context()
	client := &wsClient{conn: conn, writeTimeout: s.Config.WSWriteTimeout}
	unsubscribe := s.dashboard.subscribe(client)
	defer unsubscribe()

	if summary, fetchErr := s.dashboard.fetchSummary(ctx); fetchErr == nil {
		_ = client.writeJSON(map[string]any{"type": "dashboard.summary", "data": summary})
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	select {
	case <-clientClosed:
	case <-ctx.Done():
	}
}
