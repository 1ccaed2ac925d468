// Package apiclient implements the repository interfaces over the
// external HTTP JSON API that owns all student and settings data.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core"
)

// ErrConnection is a network/connectivity failure. Handlers surface it
// as the generic "Error connecting to server" message; the operation is
// abandoned and never retried automatically.
var ErrConnection = errors.New("error connecting to server")

// StatusError is a non-2xx response from the backend, carrying the
// message from its error body when one was present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	se, ok := errors.Cause(err).(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

type Client struct {
	base string
	http *http.Client
}

func New(conf *core.Config) *Client {
	return &Client{
		base: conf.Backend.BaseURL,
		http: &http.Client{Timeout: conf.Backend.Timeout},
	}
}

// do performs one request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(ErrConnection, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

// errorMessage extracts the backend's error body when present,
// otherwise falls back to the generic status text.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
