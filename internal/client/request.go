package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/paes/ensayos/pkg/logger"
	"github.com/paes/ensayos/pkg/metrics"
)

// Header values sent with every request.
const (
	contentTypeJSON = "application/json"
	authScheme      = "Token "
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// call is one HTTP attempt.
type call struct {
	op     string
	method string
	path   string
	body   any
}

// single runs an operation that has no legacy path.
func (c *Client) single(ctx context.Context, cl call) (json.RawMessage, error) {
	data, err := c.do(ctx, cl)
	if err != nil {
		c.failed(ctx, cl.op, err)
		return nil, err
	}
	return data, nil
}

// withFallback runs primary and, only if it fails, legacy once.
func (c *Client) withFallback(ctx context.Context, primary, legacy call) (json.RawMessage, error) {
	data, err := c.do(ctx, primary)
	if err == nil {
		return data, nil
	}

	c.logger.Warn(ctx, "primary path failed, trying legacy path",
		logger.String("operation", primary.op),
		logger.String("primary", primary.path),
		logger.String("legacy", legacy.path),
		logger.Error(err))
	metrics.RecordClientFallback(primary.op)

	data, ferr := c.do(ctx, legacy)
	if ferr == nil {
		return data, nil
	}
	var re *RequestError
	if errors.As(ferr, &re) {
		re.Primary = err
	}
	c.failed(ctx, primary.op, ferr)
	return nil, ferr
}

func (c *Client) failed(ctx context.Context, op string, err error) {
	metrics.RecordClientFailure(op)
	c.logger.Error(ctx, "request failed", logger.String("operation", op), logger.Error(err))
}

// do performs one attempt and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, cl call) (json.RawMessage, error) {
	fail := func(status int, body []byte, err error) *RequestError {
		return &RequestError{
			Op:         cl.op,
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: status,
			Body:       excerpt(body),
			Err:        err,
		}
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fail(0, nil, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return nil, fail(0, nil, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(requestIDHeader, reqID)
	if reader != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if token, ok := c.token(); ok {
		req.Header.Set("Authorization", authScheme+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordClientRequest(cl.op, cl.method, "error", elapsedMs(start))
		c.logger.Debug(ctx, "request error",
			logger.String("operation", cl.op),
			logger.String("request_id", reqID),
			logger.Error(err))
		return nil, fail(0, nil, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordClientRequest(cl.op, cl.method, statusClass(resp.StatusCode), elapsedMs(start))
	c.logger.Debug(ctx, "request done",
		logger.String("operation", cl.op),
		logger.String("method", cl.method),
		logger.String("path", cl.path),
		logger.String("request_id", reqID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))
	if err != nil {
		return nil, fail(resp.StatusCode, nil, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fail(resp.StatusCode, body, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
