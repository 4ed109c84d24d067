package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"push-channel-sync/internal/adapters/lang"
	"push-channel-sync/internal/adapters/registry"
	"push-channel-sync/internal/adapters/sound"
	"push-channel-sync/internal/adapters/vibro"
	"push-channel-sync/internal/domain"
	"push-channel-sync/internal/infra/config"
	"push-channel-sync/internal/infra/db"
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
		logger.Fatal().Err(err).Msg("syncd: нет подключения к БД")
	}
	defer pool.Close()

	registryAdapter := registry.NewPostgres(pool)
	if err := registryAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("syncd: не удалось подготовить схему реестра")
	}

	syncQueue, closeQueue, err := newSyncQueue(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("syncd: не удалось инициализировать очередь")
	}
	defer closeQueue()

	service := channelsusecase.NewService(
		registryAdapter,
		lang.NewStatic(cfg.Language.Active),
		sound.NewBaseURL(cfg.Sounds.BaseURL),
		vibro.NewParser(),
		cfg.Host.ChannelsSupported,
		logger.With().Str("component", "channels").Logger(),
	)

	worker := &syncWorker{
		log:        logger.With().Str("component", "syncd").Logger(),
		queue:      syncQueue,
		service:    service,
		popBackoff: time.Second,
	}

	logger.Info().Msg("syncd: запуск обработки очереди")
	worker.Run(ctx)
	logger.Info().Msg("syncd: остановлен")
}

// channelSyncer — часть сервиса каналов, нужная обработчику очереди.
type channelSyncer interface {
	SyncChannelList(ctx context.Context, list []domain.ChannelPayload) (domain.SyncResult, error)
}

type syncWorker struct {
	log        zerolog.Logger
	queue      domain.SyncQueue
	service    channelSyncer
	popBackoff time.Duration
}

// Run обрабатывает задания до отмены контекста. Ошибка одного задания не
// останавливает обработку очереди; при ошибке чтения из очереди обработчик
// выдерживает паузу, чтобы не крутиться вхолостую на лежащем брокере.
func (w *syncWorker) Run(ctx context.Context) {
	for {
		job, ack, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.log.Error().Err(err).Msg("не удалось получить задание")
			time.Sleep(w.popBackoff)
			continue
		}

		synced, err := w.service.SyncChannelList(ctx, job.Channels)
		metrics.IncSyncJob(string(job.Cause), err)
		if ack != nil {
			if ackErr := ack(err == nil); ackErr != nil {
				w.log.Error().Err(ackErr).Str("job_id", job.ID).Msg("не удалось подтвердить задание")
			}
		}
		if err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("синхронизация не завершена")
			continue
		}
		w.log.Info().
			Str("job_id", job.ID).
			Str("cause", string(job.Cause)).
			Int("requested", len(job.Channels)).
			Int("synced", len(synced)).
			Msg("синхронизация завершена")
	}
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
