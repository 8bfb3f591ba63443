package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/myshop/internal/app"
)

const (
	envMetricsAddr        = "SHOP_METRICS_ADDR"
	envStorageDriver      = "SHOP_STORAGE_DRIVER"
	envDBURL              = "SHOP_DB_URL"
	envDBUser             = "SHOP_DB_USER"
	envDBPassword         = "SHOP_DB_PASSWORD"
	envDBAutoMigrate      = "SHOP_DB_AUTO_MIGRATE"
	envEventsDriver       = "SHOP_EVENTS_DRIVER"
	envKafkaBrokers       = "SHOP_KAFKA_BROKERS"
	envKafkaTopic         = "SHOP_KAFKA_TOPIC"
	envAMQPURL            = "SHOP_AMQP_URL"
	envAMQPExchange       = "SHOP_AMQP_EXCHANGE"
	envHealthCheckTimeout = "SHOP_HEALTH_CHECK_TIMEOUT"
	envShutdownTimeout    = "SHOP_SHUTDOWN_TIMEOUT"
	envLogLevel           = "SHOP_LOG_LEVEL"
)

type envLookup func(key string) (string, bool)

// readConfigFromEnv накладывает переменные окружения на DefaultConfig.
// Некорректные значения не роняют старт: остаётся значение по умолчанию и добавляется предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(envMetricsAddr, &cfg.MetricsAddr)
	str(envDBURL, &cfg.DB.URL)
	str(envDBUser, &cfg.DB.User)
	str(envKafkaBrokers, &cfg.KafkaBrokers)
	str(envKafkaTopic, &cfg.KafkaTopic)
	str(envAMQPURL, &cfg.AMQPURL)
	str(envAMQPExchange, &cfg.AMQPExchange)

	// пароль не тримим: пробелы могут быть его частью
	if v, ok := lookup(envDBPassword); ok {
		cfg.DB.Password = v
	}

	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(envEventsDriver); ok && strings.TrimSpace(v) != "" {
		cfg.EventsDriver = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup(envDBAutoMigrate); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, using %t", envDBAutoMigrate, err, cfg.AutoMigrate))
		} else {
			cfg.AutoMigrate = parsed
		}
	}

	positive := func(d time.Duration) bool { return d > 0 }
	for _, item := range []struct {
		key string
		dst *time.Duration
	}{
		{envHealthCheckTimeout, &cfg.HealthCheckTimeout},
		{envShutdownTimeout, &cfg.ShutdownTimeout},
	} {
		v, ok := lookup(item.key)
		if !ok {
			continue
		}
		parsed, err := parseDuration(v, positive, "must be > 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, using %s", item.key, err, *item.dst))
			continue
		}
		*item.dst = parsed
	}

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid duration value %q", raw)
	}
	if valid != nil && !valid(value) {
		return 0, fmt.Errorf("value %s %s", value, rule)
	}
	return value, nil
}
