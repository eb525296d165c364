// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/notification"
)

const createDeliveriesTable = `CREATE TABLE IF NOT EXISTS notification_deliveries (
    id         BIGSERIAL PRIMARY KEY,
    chat_id    BIGINT      NOT NULL,
    kind       VARCHAR(32) NOT NULL,
    text       TEXT        NOT NULL,
    delivered  BOOLEAN     NOT NULL,
    error      TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// EnsureSchema creates the deliveries table if it does not exist yet.
func (r *PostgresNotificationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDeliveriesTable); err != nil {
		return fmt.Errorf("error creating notification_deliveries table: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO notification_deliveries (chat_id, kind, text, delivered, error)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, d.ChatID, d.Kind, d.Text, d.Delivered, d.Error).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification delivery: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListRecent(ctx context.Context, limit int) ([]*notification.Delivery, error) {
	query := `SELECT id, chat_id, kind, text, delivered, error, created_at
               FROM notification_deliveries
               ORDER BY created_at DESC, id DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent notification deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*notification.Delivery, 0, limit)
	for rows.Next() {
		d := notification.Delivery{}
		if err := rows.Scan(&d.ID, &d.ChatID, &d.Kind, &d.Text, &d.Delivered, &d.Error, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification delivery row: %w", err)
		}
		deliveries = append(deliveries, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification delivery rows: %w", err)
	}
	return deliveries, nil
}
