// internal/app/poller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

const errorMessagePrefix = "Сбой в работе программы: "

// EventNotifier is the part of Notifier the poll loop depends on.
type EventNotifier interface {
	Notify(ctx context.Context, ev notification.Event) error
}

// PollState is carried from one cycle to the next.
type PollState struct {
	// Watermark is the from_date of the next request. It never moves backwards
	// and only moves after a successful cycle.
	Watermark time.Time
	// LastErrorMessage is the last error text handed to the notifier, empty after a successful cycle.
	LastErrorMessage string
}

// Poller runs single poll iterations. It holds no state of its own.
type Poller struct {
	fetcher  homework.Fetcher
	notifier EventNotifier
	logger   *logrus.Entry
	now      func() time.Time
}

func NewPoller(f homework.Fetcher, n EventNotifier, logger *logrus.Entry) *Poller {
	return &Poller{
		fetcher:  f,
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// Cycle performs one fetch/validate/interpret/notify pass and returns the next state.
// It never fails: every error is turned into an operational-error notification.
func (p *Poller) Cycle(ctx context.Context, state PollState) PollState {
	cycleLogger := p.logger.WithField("from_date", state.Watermark.Unix())
	requestedAt := p.now()

	resp, rec, found, err := p.fetchLatest(ctx, state.Watermark)
	if err != nil {
		return p.handleFailure(ctx, cycleLogger, state, err)
	}

	next := state
	next.LastErrorMessage = ""

	if !found {
		cycleLogger.Debug("No new homework statuses")
	} else {
		message, err := homework.ParseStatus(rec)
		if err != nil {
			return p.handleFailure(ctx, cycleLogger, state, err)
		}
		cycleLogger.WithFields(logrus.Fields{
			"homework": rec.Name,
			"status":   rec.Status,
		}).Info("Homework status changed")
		// Delivery errors are already logged by the notifier and do not fail the cycle.
		_ = p.notifier.Notify(ctx, notification.Event{Kind: notification.KindStatusChange, Text: message})
	}

	watermark := requestedAt
	if resp.HasCurrentDate {
		watermark = time.Unix(resp.CurrentDate, 0)
	}
	if watermark.After(next.Watermark) {
		next.Watermark = watermark
	}
	return next
}

func (p *Poller) fetchLatest(ctx context.Context, from time.Time) (*homework.Response, homework.Record, bool, error) {
	raw, err := p.fetcher.FetchStatuses(ctx, from)
	if err != nil {
		return nil, homework.Record{}, false, err
	}
	resp, err := homework.CheckResponse(raw)
	if err != nil {
		return nil, homework.Record{}, false, err
	}
	// Only the most recent record is looked at; the rest of the batch is ignored.
	rec, found, err := resp.Latest()
	if err != nil {
		return nil, homework.Record{}, false, err
	}
	return resp, rec, found, nil
}

func (p *Poller) handleFailure(ctx context.Context, logger *logrus.Entry, state PollState, cause error) PollState {
	message := errorMessagePrefix + cause.Error()
	logger.WithError(cause).WithField("error_kind", errorKind(cause)).Error("Poll cycle failed")

	if message == state.LastErrorMessage {
		logger.Debug("Same error already reported, not sending it again")
	} else {
		_ = p.notifier.Notify(ctx, notification.Event{Kind: notification.KindOperationalError, Text: message})
	}

	state.LastErrorMessage = message
	return state
}

func errorKind(err error) string {
	var (
		transport *homework.TransportError
		upstream  *homework.UpstreamUnavailableError
		malformed *homework.MalformedResponseError
		schema    *homework.SchemaError
		unknown   *homework.UnknownStatusError
	)
	switch {
	case errors.As(err, &transport):
		return "transport"
	case errors.As(err, &upstream):
		return fmt.Sprintf("upstream_%d", upstream.StatusCode)
	case errors.As(err, &malformed):
		return "malformed_response"
	case errors.As(err, &schema):
		return "schema"
	case errors.As(err, &unknown):
		return "unknown_status"
	default:
		return "other"
	}
}
