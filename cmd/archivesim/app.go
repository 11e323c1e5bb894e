package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"

	"archivesim/internal/dispatcher"
	"archivesim/internal/reply"
	"archivesim/internal/session"
	"archivesim/internal/transport"
	"archivesim/internal/validation"
)

const (
	defaultConfigFilePath   = "config/archivesim.json"
	alternateConfigFilePath = "bin/config/archivesim.json"
	defaultQueueBuffer      = 256
)

type appConfig struct {
	logLevel    slog.Level
	queueBuffer int
}

type fileConfig struct {
	LogLevel string          `json:"log_level"`
	Queue    fileQueueConfig `json:"queue"`
}

type fileQueueConfig struct {
	Buffer *int `json:"buffer"`
}

// envOverrides beat the config file; the file beats built-in defaults.
type envOverrides struct {
	ConfigFile  string `env:"ARCHIVESIM_CONFIG_FILE"`
	LogLevel    string `env:"ARCHIVESIM_LOG_LEVEL"`
	QueueBuffer int    `env:"ARCHIVESIM_QUEUE_BUFFER"`
}

func run() error {
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	cfg, err := loadConfig(overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel}))

	validator, err := validation.New()
	if err != nil {
		return fmt.Errorf("compile schemas: %w", err)
	}
	store := session.NewStore(session.WithLogger(logger))
	builder := reply.New()
	dispatch, err := dispatcher.New(validator, store, builder, dispatcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("new dispatcher: %w", err)
	}
	queue := transport.NewQueue(
		transport.WithLogger(logger),
		transport.WithBuffer(cfg.queueBuffer),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("archive endpoint started", "queue_buffer", cfg.queueBuffer)
	if err := queue.Run(ctx, dispatch.Dispatch); err != nil {
		return fmt.Errorf("run queue: %w", err)
	}
	logger.Info("archive endpoint stopped")

	return nil
}

func loadConfig(overrides envOverrides) (appConfig, error) {
	cfg := appConfig{
		logLevel:    slog.LevelInfo,
		queueBuffer: defaultQueueBuffer,
	}

	configFile, err := resolveConfigFilePath(overrides.ConfigFile)
	if err != nil {
		return appConfig{}, err
	}
	if configFile != "" {
		if err := applyConfigFile(&cfg, configFile); err != nil {
			return appConfig{}, err
		}
	}

	if rawLevel := strings.TrimSpace(overrides.LogLevel); rawLevel != "" {
		level, err := parseLogLevel(rawLevel)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse ARCHIVESIM_LOG_LEVEL: %w", err)
		}
		cfg.logLevel = level
	}
	if overrides.QueueBuffer != 0 {
		if overrides.QueueBuffer < 0 {
			return appConfig{}, fmt.Errorf("parse ARCHIVESIM_QUEUE_BUFFER: must be > 0")
		}
		cfg.queueBuffer = overrides.QueueBuffer
	}

	return cfg, nil
}

// resolveConfigFilePath returns the explicit path when set, the first default
// candidate that exists otherwise, or empty when the endpoint should run on
// built-in defaults alone.
func resolveConfigFilePath(explicit string) (string, error) {
	if configFile := strings.TrimSpace(explicit); configFile != "" {
		return configFile, nil
	}

	candidates := []string{defaultConfigFilePath, alternateConfigFilePath}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config file %s is a directory", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat config file %s: %w", candidate, err)
		}
	}

	return "", nil
}

func applyConfigFile(cfg *appConfig, path string) error {
	if cfg == nil {
		return fmt.Errorf("apply config file: nil config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var parsed fileConfig
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if rawLevel := strings.TrimSpace(parsed.LogLevel); rawLevel != "" {
		level, err := parseLogLevel(rawLevel)
		if err != nil {
			return fmt.Errorf("parse log_level: %w", err)
		}
		cfg.logLevel = level
	}
	if parsed.Queue.Buffer != nil {
		if *parsed.Queue.Buffer <= 0 {
			return fmt.Errorf("parse queue.buffer: must be > 0")
		}
		cfg.queueBuffer = *parsed.Queue.Buffer
	}

	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported level %q", raw)
	}
}
