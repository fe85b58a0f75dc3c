package db

import (
	"context"
	"fmt"

	"github.com/senyabanana/freelance-service/internal/router/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDb инициализирует подключение к базе данных и возвращает пул соединений.
// Если строка подключения не задана, она собирается из отдельных параметров.
func InitDb(cfg config.Config) (*pgxpool.Pool, error) {
	databaseUrl := cfg.PostgresConn
	if databaseUrl == "" {
		databaseUrl = BuildDatabaseURL(cfg)
	}
	if databaseUrl == "" {
		return nil, fmt.Errorf("database connection is not configured")
	}

	dbPool, err := pgxpool.New(context.Background(), databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbPool, nil
}

// BuildDatabaseURL собирает строку подключения из отдельных параметров конфигурации.
// Возвращает пустую строку, если хотя бы один параметр не задан.
func BuildDatabaseURL(cfg config.Config) string {
	if cfg.PostgresUser == "" || cfg.PostgresPass == "" || cfg.PostgresHost == "" || cfg.PostgresPort == "" || cfg.PostgresDB == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPass, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
}
