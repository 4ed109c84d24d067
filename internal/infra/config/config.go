package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов синхронизации каналов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`
	RabbitURL string `envconfig:"RABBITMQ_URL"`

	Host struct {
		// ChannelsSupported — поддерживает ли подсистема уведомлений каналы.
		// Вычисляется при деплое и передаётся в сервис один раз.
		ChannelsSupported bool `envconfig:"HOST_CHANNELS_SUPPORTED" default:"true"`
	} `envconfig:""`

	Language struct {
		Active string `envconfig:"ACTIVE_LANGUAGE" default:"en"`
	} `envconfig:""`

	Sounds struct {
		BaseURL string `envconfig:"SOUND_BASE_URL" default:"content://sounds"`
	} `envconfig:""`

	Queues struct {
		Sync string `envconfig:"SYNC_QUEUE_KEY" default:"channel_sync_jobs"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
