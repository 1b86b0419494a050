// Package advisory proxies requests to the ML backends: the generative
// text service for crop guidance and weather summaries, and the
// inference service for disease classification.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/retry"
)

// Client errors
var (
	ErrAdvisoryUnavailable = errors.New("advisory backend unavailable")
	ErrAdvisoryBadRequest  = errors.New("advisory backend rejected the request")
)

// Config holds the backend endpoints and timeouts.
type Config struct {
	AdvisoryURL  string
	InferenceURL string
	Timeout      time.Duration
	MaxRetries   int
}

// Client calls the advisory backends over HTTP with bounded timeouts
// and retry on transient failure.
type Client struct {
	advisoryURL  string
	inferenceURL string
	http         *http.Client
	retrier      *retry.Retrier
	log          *zap.Logger
}

// NewClient creates the advisory client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &Client{
		advisoryURL:  cfg.AdvisoryURL,
		inferenceURL: cfg.InferenceURL,
		http:         &http.Client{Transport: transport, Timeout: timeout},
		retrier: retry.New(&retry.Config{
			MaxRetries:      maxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.2,
		}),
		log: log,
	}
}

// postJSON sends a JSON request and decodes the JSON response into out.
// 4xx responses are permanent; 5xx and transport errors are retried.
func (c *Client) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return c.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("advisory backend call failed", zap.String("endpoint", endpoint), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%w: status %d", ErrAdvisoryUnavailable, resp.StatusCode)
		case resp.StatusCode >= 400:
			io.Copy(io.Discard, resp.Body)
			return retry.Permanent(fmt.Errorf("%w: status %d", ErrAdvisoryBadRequest, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("%w: bad response body: %v", ErrAdvisoryUnavailable, err))
		}
		return nil
	})
}

// CropAdvice asks the generative backend for guidance.
func (c *Client) CropAdvice(ctx context.Context, req *dto.CropAdviceRequest) (*dto.CropAdviceResponse, error) {
	out := &dto.CropAdviceResponse{}
	if err := c.postJSON(ctx, c.advisoryURL+"/v1/crop-advice", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DiseaseDetect submits an image reference to the inference service.
func (c *Client) DiseaseDetect(ctx context.Context, req *dto.DiseaseDetectRequest) (*dto.DiseaseDetectResponse, error) {
	out := &dto.DiseaseDetectResponse{}
	if err := c.postJSON(ctx, c.inferenceURL+"/v1/disease-detect", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Weather fetches the public weather summary for a province.
func (c *Client) Weather(ctx context.Context, province string) (*dto.WeatherResponse, error) {
	endpoint := c.advisoryURL + "/v1/weather?province=" + url.QueryEscape(province)
	out := &dto.WeatherResponse{}

	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%w: status %d", ErrAdvisoryUnavailable, resp.StatusCode)
		case resp.StatusCode >= 400:
			io.Copy(io.Discard, resp.Body)
			return retry.Permanent(fmt.Errorf("%w: status %d", ErrAdvisoryBadRequest, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("%w: bad response body: %v", ErrAdvisoryUnavailable, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
