// internal/domain/notification/repository.go
package notification

import "context"

// Journal records delivery attempts. It is an audit trail only and never feeds back into polling.
type Journal interface {
	Create(ctx context.Context, d *Delivery) error
	ListRecent(ctx context.Context, limit int) ([]*Delivery, error)
}
