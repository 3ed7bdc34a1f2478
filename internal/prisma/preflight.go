package prisma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNoDatabaseURL means DATABASE_URL is not configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

// Preflight checks that the database behind databaseURL accepts connections
// so a failing migration can be explained up front.
func Preflight(ctx context.Context, databaseURL string, timeout time.Duration) error {
	if databaseURL == "" {
		return ErrNoDatabaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	defer conn.Close(context.Background()) //nolint:errcheck
	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
