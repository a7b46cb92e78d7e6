// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/updatechecker/model"
)

//go:generate mockgen -source=transport.go -destination=../mocks/transport/fetcher.go -package=mock_transport

// Fetcher retrieves a metadata URL.
type Fetcher interface {
	Fetch(ctx context.Context, metadataURL string) *model.TransportResult
}

// Transport error codes.
const (
	ErrorCodeRequest      = "http_request_failed"
	ErrorCodeHostBlocked  = "http_host_blocked"
	ErrorCodeInvalidURL   = "http_invalid_url"
	ErrorCodeBodyTooLarge = "http_body_too_large"
)

// Fetch defaults.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultMaxElapsedTime = 30 * time.Second
	defaultMaxBodySize    = 4 << 20
)

// Options configure an HTTPFetcher.
type Options struct {
	// Timeout bounds each request. Default: 10s.
	Timeout time.Duration
	// MaxElapsedTime bounds all attempts of one fetch, including backoff.
	// Zero uses the default of 30s; a negative value disables retries.
	MaxElapsedTime time.Duration
	// MaxBodySize bounds the response body. Default: 4 MiB.
	MaxBodySize int64
	// AllowedHosts, when not empty, is the only set of hosts the fetcher
	// will contact.
	AllowedHosts []string
	// UserAgent is sent with every request.
	UserAgent string
}

// HTTPFetcher fetches metadata over HTTP, retrying transport failures and
// 5xx responses with exponential backoff.
type HTTPFetcher struct {
	client  *http.Client
	options Options
	logger  logrus.FieldLogger
}

// NewHTTPFetcher returns an HTTPFetcher using client, or a new client when
// client is nil.
func NewHTTPFetcher(client *http.Client, options Options, logger logrus.FieldLogger) *HTTPFetcher {
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}
	if options.MaxElapsedTime == 0 {
		options.MaxElapsedTime = DefaultMaxElapsedTime
	}
	if options.MaxBodySize == 0 {
		options.MaxBodySize = defaultMaxBodySize
	}
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPFetcher{
		client:  client,
		options: options,
		logger:  logger,
	}
}

// Fetch performs a GET request for metadataURL. It never returns nil.
func (f *HTTPFetcher) Fetch(ctx context.Context, metadataURL string) *model.TransportResult {
	parsed, err := url.Parse(metadataURL)
	if err != nil || parsed.Host == "" {
		return model.NewTransportFailure(ErrorCodeInvalidURL, "invalid metadata URL "+metadataURL)
	}
	if !f.hostAllowed(parsed.Hostname()) {
		return model.NewTransportFailure(ErrorCodeHostBlocked, "host "+parsed.Hostname()+" is not allowed")
	}

	var result *model.TransportResult
	operation := func() error {
		result = f.fetchOnce(ctx, metadataURL)
		if result.Failed() {
			if result.Err.Code != ErrorCodeRequest {
				return backoff.Permanent(result.Err)
			}
			return result.Err
		}
		if result.StatusCode >= http.StatusInternalServerError {
			return errors.Errorf("metadata server responded with %d", result.StatusCode)
		}
		return nil
	}

	// The outcome of the last attempt is returned even when retries are
	// exhausted; a lingering 5xx is reported by the validator.
	_ = backoff.RetryNotify(operation, f.backOff(ctx), func(err error, wait time.Duration) {
		f.logger.WithError(err).WithField("url", metadataURL).Debugf("Retrying metadata request in %s", wait)
	})
	if result == nil {
		return model.NewTransportFailure(ErrorCodeRequest, "request cancelled")
	}

	return result
}

func (f *HTTPFetcher) backOff(ctx context.Context) backoff.BackOff {
	if f.options.MaxElapsedTime < 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = 500 * time.Millisecond
	exponential.MaxElapsedTime = f.options.MaxElapsedTime

	return backoff.WithContext(exponential, ctx)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, metadataURL string) *model.TransportResult {
	ctx, cancel := context.WithTimeout(ctx, f.options.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return model.NewTransportFailure(ErrorCodeInvalidURL, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if f.options.UserAgent != "" {
		req.Header.Set("User-Agent", f.options.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.NewTransportFailure(ErrorCodeRequest, err.Error())
	}
	defer closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.options.MaxBodySize+1))
	if err != nil {
		return model.NewTransportFailure(ErrorCodeRequest, errors.Wrap(err, "failed to read response body").Error())
	}
	if int64(len(body)) > f.options.MaxBodySize {
		return model.NewTransportFailure(ErrorCodeBodyTooLarge, "response body exceeds the size limit")
	}

	return model.NewTransportSuccess(resp.StatusCode, body)
}

func (f *HTTPFetcher) hostAllowed(host string) bool {
	if len(f.options.AllowedHosts) == 0 {
		return true
	}
	for _, allowed := range f.options.AllowedHosts {
		if strings.EqualFold(allowed, host) {
			return true
		}
	}
	return false
}

// closeBody ensures the Body of an http.Response is properly closed.
func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.ReadAll(r.Body)
		_ = r.Body.Close()
	}
}
