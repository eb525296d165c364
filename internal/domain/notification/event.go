// internal/domain/notification/event.go
package notification

import (
	"database/sql"
	"time"
)

// Kind tells status updates apart from operational error reports.
type Kind string

const (
	KindStatusChange     Kind = "status_change"
	KindOperationalError Kind = "operational_error"
)

// Event is a message the poll loop wants delivered to the chat.
type Event struct {
	Kind Kind
	Text string
}

// Delivery is one delivery attempt as stored in the journal.
// Corresponds to the 'notification_deliveries' table.
type Delivery struct {
	ID        int64
	ChatID    int64
	Kind      Kind
	Text      string
	Delivered bool
	Error     sql.NullString // delivery error text, NULL when delivered
	CreatedAt time.Time
}
