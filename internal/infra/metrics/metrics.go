package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ChannelsSynced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "channels_synced_total",
		Help: "Успешно зарегистрированные каналы",
	})
	ChannelsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "channels_deleted_total",
		Help: "Каналы, удалённые при синхронизации",
	})
	ChannelsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "channels_rejected_total",
		Help: "Каналы, отклонённые хостом",
	})
	SyncJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_jobs_total",
		Help: "Обработанные задания синхронизации по источникам",
	}, []string{"cause", "status"})
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "channel_sync_seconds",
		Help:    "Время полного прохода синхронизации",
		Buckets: prometheus.DefBuckets,
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ChannelsSynced,
		ChannelsDeleted,
		ChannelsRejected,
		SyncJobsTotal,
		SyncDuration,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// IncChannelSynced увеличивает счётчик зарегистрированных каналов.
func IncChannelSynced() {
	ChannelsSynced.Inc()
}

// IncChannelDeleted увеличивает счётчик удалённых каналов.
func IncChannelDeleted() {
	ChannelsDeleted.Inc()
}

// IncChannelRejected увеличивает счётчик отклонённых каналов.
func IncChannelRejected() {
	ChannelsRejected.Inc()
}

// ObserveSync записывает длительность прохода синхронизации.
func ObserveSync(start time.Time) {
	SyncDuration.Observe(time.Since(start).Seconds())
}

// IncSyncJob учитывает обработанное задание синхронизации.
func IncSyncJob(cause string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if cause == "" {
		cause = "unknown"
	}
	SyncJobsTotal.WithLabelValues(cause, status).Inc()
}
