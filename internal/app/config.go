package app

import (
	"time"

	"github.com/vladislavdragonenkov/myshop/internal/storage/postgres"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverORM      = "orm"
)

const (
	EventsDriverNone  = "none"
	EventsDriverKafka = "kafka"
	EventsDriverAMQP  = "amqp"
)

// Config описывает настройки запуска магазина.
type Config struct {
	MetricsAddr string

	StorageDriver string
	DB            postgres.ConnConfig
	AutoMigrate   bool

	EventsDriver string
	// KafkaBrokers: список брокеров через запятую.
	KafkaBrokers string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string

	HealthCheckTimeout time.Duration
	ShutdownTimeout    time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:        ":9090",
		StorageDriver:      StorageDriverMemory,
		AutoMigrate:        true,
		EventsDriver:       EventsDriverNone,
		HealthCheckTimeout: 2 * time.Second,
		ShutdownTimeout:    5 * time.Second,
	}
}
