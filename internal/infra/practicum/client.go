// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// maxBodySize caps how much of a response body is read; real answers are a few KB.
const maxBodySize = 1 << 20

// Client implements homework.Fetcher against the Practicum homework status API.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *logrus.Entry
}

func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// FetchStatuses requests every homework changed since from.
func (c *Client) FetchStatuses(ctx context.Context, from time.Time) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &homework.TransportError{Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from.Unix(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &homework.TransportError{Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	reqLogger := c.logger.WithField("from_date", from.Unix())
	reqLogger.Debug("Requesting homework statuses")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &homework.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		reqLogger.WithField("status_code", resp.StatusCode).Warn("Status API answered with non-200 status")
		return nil, &homework.UpstreamUnavailableError{StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, &homework.MalformedResponseError{Err: err}
	}
	return body, nil
}
