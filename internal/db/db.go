// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS campaign_snapshots (
    id         TEXT PRIMARY KEY,
    snapshot   JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// Open connects to PostgreSQL and makes sure the snapshot table exists.
func Open(ctx context.Context, cfg config.DB) (*sql.DB, error) {
	logrus.WithFields(logrus.Fields{
		"db_host": cfg.Host,
		"db_name": cfg.Name,
		"db_user": cfg.User,
	}).Info("connecting to database")

	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	logrus.Info("connected to database")
	return conn, nil
}

func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create campaign_snapshots: %w", err)
	}
	return nil
}
