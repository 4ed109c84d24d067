package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"push-channel-sync/internal/adapters/lang"
	"push-channel-sync/internal/adapters/registry"
	"push-channel-sync/internal/adapters/sound"
	"push-channel-sync/internal/adapters/vibro"
	"push-channel-sync/internal/domain"
	"push-channel-sync/internal/infra/config"
	"push-channel-sync/internal/infra/db"
	httpinfra "push-channel-sync/internal/infra/http"
	applog "push-channel-sync/internal/infra/log"
	"push-channel-sync/internal/infra/metrics"
	"push-channel-sync/internal/infra/queue"
	channelsusecase "push-channel-sync/internal/usecase/channels"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()
	registryAdapter := registry.NewPostgres(pool)
	if err := registryAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось подготовить схему реестра")
	}

	syncQueue, closeQueue, err := newSyncQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось инициализировать очередь")
	}
	defer closeQueue()

	channelService := channelsusecase.NewService(
		registryAdapter,
		lang.NewStatic(cfg.Language.Active),
		sound.NewBaseURL(cfg.Sounds.BaseURL),
		vibro.NewParser(),
		cfg.Host.ChannelsSupported,
		logger.With().Str("component", "channels").Logger(),
	)

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	r := server.Router

	r.Post("/api/v1/channels/sync", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Channels) == 0 {
			writeError(w, http.StatusBadRequest, "channels list is empty")
			return
		}
		cause := domain.SyncCause(req.Cause)
		if cause == "" {
			cause = domain.SyncCauseColdStart
		}
		job := domain.SyncJob{
			ID:          uuid.NewString(),
			Channels:    req.Channels,
			RequestedAt: time.Now().UTC(),
			Cause:       cause,
		}
		if err := syncQueue.Enqueue(r.Context(), job); err != nil {
			logger.Error().Err(err).Msg("api: не удалось поставить задание в очередь")
			writeError(w, http.StatusInternalServerError, "failed to enqueue sync job")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": job.ID})
	})

	// Синхронное разрешение канала для одного уведомления: восстановление,
	// внешний канал, отсутствие спецификации или спецификация из payload.
	r.Post("/api/v1/notifications/channel", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req channelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id := channelService.EnsureChannel(r.Context(), domain.NotificationJob{
			Payload:   req.Payload,
			Restoring: req.Restoring,
		})
		writeJSON(w, map[string]string{"channel_id": id})
	})

	r.Get("/api/v1/channels", httpinfra.ListChannelsHandler(
		registryAdapter,
		logger.With().Str("component", "http").Logger(),
	))

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()
	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

type syncRequest struct {
	Channels []domain.ChannelPayload `json:"channels"`
	Cause    string                  `json:"cause,omitempty"`
}

type channelRequest struct {
	Payload   domain.ChannelPayload `json:"payload"`
	Restoring bool                  `json:"restoring,omitempty"`
}

// newSyncQueue выбирает транспорт заданий: RabbitMQ при наличии RABBITMQ_URL,
// иначе Redis.
func newSyncQueue(cfg config.AppConfig) (domain.SyncQueue, func(), error) {
	if cfg.RabbitURL != "" {
		q, err := queue.NewRabbitSyncQueue(cfg.RabbitURL, cfg.Queues.Sync)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	q := queue.NewRedisSyncQueue(client, cfg.Queues.Sync)
	return q, func() { _ = client.Close() }, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
