package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reviewbot/pkg/logx"
)

type Config struct {
	Endpoint string
	Token    string
	// Timeout bounds a single request end-to-end. 0 means 30s.
	Timeout time.Duration
}

// Client fetches raw status payloads from the review endpoint.
// It classifies failures but does not validate the payload shape; that is
// Validate's job.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      logx.Logger
}

func NewClient(cfg Config, log logx.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("status endpoint is empty")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid status endpoint: %w", err)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("status token is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}, nil
}

// Fetch requests status changes after the given checkpoint (unix seconds).
// It returns the decoded JSON payload as-is; use Validate to turn it into a
// StatusPage.
func (c *Client) Fetch(ctx context.Context, from int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	c.log.Debug("requesting status page", logx.Int64("from_date", from))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProtocolError{StatusCode: resp.StatusCode}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &SchemaError{Reason: "response body is not valid JSON: " + err.Error()}
	}

	c.log.Debug("status page received")
	return payload, nil
}
