// Package identity talks to the remote ID verification service used for
// age-restricted purchases. The service is an optional external capability:
// the kiosk runs it in addition to the local birthdate gate, never instead
// of it.
package identity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps how much of a verification response body is read.
const maxResponseSize = 1 << 20

// ErrEmptyIDNumber is returned before any request is made when the id number
// is blank.
var ErrEmptyIDNumber = errors.New("id number required")

// ServiceError indicates the verification service answered with a non-success
// status. It is distinct from an explicit "not verified" result: callers must
// treat inability to verify as a denial of the purchase attempt, not of the
// customer.
type ServiceError struct {
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("id verification failed: status code %d", e.StatusCode)
}

// Verifier checks an identity document number against a verification backend.
type Verifier interface {
	Verify(ctx context.Context, idNumber string) (bool, error)
}

// ClientConfig holds the remote endpoint, credential, and request timeout for
// a Client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements Verifier over a single HTTP POST per verification.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

var _ Verifier = (*Client)(nil)

// NewClient creates a Client with an otel-instrumented transport and the
// configured per-request timeout.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Verify posts the id number to the verification endpoint and returns the
// service's "verified" boolean. A non-200 status becomes a *ServiceError;
// transport failures (including the bounded timeout) are returned wrapped.
func (c *Client) Verify(ctx context.Context, idNumber string) (bool, error) {
	if idNumber == "" {
		return false, ErrEmptyIDNumber
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id_number")
	e.Str(idNumber)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(e.Bytes()))
	if err != nil {
		return false, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "verify request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &ServiceError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return false, errors.Wrap(err, "read response")
	}

	return decodeVerifyResponse(body)
}

// decodeVerifyResponse extracts the required "verified" boolean field from a
// success response body, ignoring any other fields.
func decodeVerifyResponse(body []byte) (bool, error) {
	var (
		verified bool
		found    bool
	)
	d := jx.DecodeBytes(body)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "verified" {
			v, err := d.Bool()
			if err != nil {
				return err
			}
			verified, found = v, true
			return nil
		}
		return d.Skip()
	}); err != nil {
		return false, errors.Wrap(err, "decode response")
	}
	if !found {
		return false, errors.New(`response missing "verified" field`)
	}
	return verified, nil
}
