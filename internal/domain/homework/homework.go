// internal/domain/homework/homework.go
package homework

import (
	"context"
	"fmt"
	"time"
)

// Status is the review state reported by the API for a submission.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Record is a single homework entry from the API response.
type Record struct {
	Name   string
	Status Status
}

// Verdict returns the human-readable description of a known status.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// ParseStatus builds the status-change message for a record.
// An unrecognized status is a hard error: it most likely means the API contract changed.
func ParseStatus(rec Record) (string, error) {
	verdict, ok := Verdict(rec.Status)
	if !ok {
		return "", &UnknownStatusError{Status: rec.Status}
	}
	return fmt.Sprintf("Changed review status of \"%s\": %s", rec.Name, verdict), nil
}

// Fetcher queries the status API for records changed since the given moment.
// The returned value is the decoded JSON body, not yet validated.
type Fetcher interface {
	FetchStatuses(ctx context.Context, from time.Time) (any, error)
}
