package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	DefaultHistoryLimit      = 50
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultIdleTimeout       = 90 * time.Second
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	SigningKey        []byte
	AllowedOrigins    []string
	HistoryLimit      int
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string,
	historyLimit int, heartbeatInterval, idleTimeout time.Duration) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if idleTimeout <= heartbeatInterval {
		return nil, fmt.Errorf("idle timeout must be greater than heartbeat interval")
	}

	return &Config{
		ServerAddr:        serverAddr,
		DatabaseDSN:       databaseDSN,
		SigningKey:        signingKey,
		AllowedOrigins:    allowedOrigins,
		HistoryLimit:      historyLimit,
		HeartbeatInterval: heartbeatInterval,
		IdleTimeout:       idleTimeout,
	}, nil
}
