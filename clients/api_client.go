package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storefront-client/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// APIClient talks to the marketplace REST backend
type APIClient struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		validate: newValidator(),
		logger:   logger,
	}
}

// request describes one backend call
type request struct {
	method string
	path   string
	token  string
	query  url.Values
	body   interface{}
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
// Every failure is returned as *APIError.
func (c *APIClient) do(ctx context.Context, req request, out interface{}) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return &APIError{Kind: KindValidation, Detail: "request could not be encoded", Err: err}
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Err: err}
	}

	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", req.method),
		zap.String("path", req.path),
	)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		apiErr := transportError(err)
		log.Warn("backend call failed", zap.Stringer("kind", apiErr.Kind), zap.Error(err))
		return apiErr
	}
	defer resp.Body.Close()

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := httpError(resp.StatusCode, raw)
		log.Warn("backend returned error", zap.String("detail", apiErr.Detail))
		return apiErr
	}
	log.Debug("backend call completed")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &APIError{Kind: KindDecode, Status: resp.StatusCode, Err: fmt.Errorf("decode %s: %w", req.path, err)}
	}
	return nil
}
