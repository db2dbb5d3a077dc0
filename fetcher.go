package dlt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 8 << 20

// envelope is the provider response shape: { value: { list: [...] } }
type envelope struct {
	Value *struct {
		List *[]RawRecord `json:"list"`
	} `json:"value"`
}

// HTTPFetcher fetches draw pages over HTTP with a bounded timeout. It performs
// exactly one request per call.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	extra     url.Values
	logger    Logger
}

// NewHTTPFetcher creates a fetcher from the source config
func NewHTTPFetcher(config *SourceConfig, logger Logger) *HTTPFetcher {
	if config == nil {
		config = DefaultSourceConfig()
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: config.UserAgent,
		extra:     url.Values{},
		logger:    logger,
	}
}

// SetParam adds a fixed query parameter sent with every request, such as the
// sporttery gateway's provinceId and isVerify flags
func (f *HTTPFetcher) SetParam(key, value string) {
	f.extra.Set(key, value)
}

// Fetch issues one GET for q and returns the records under value.list
func (f *HTTPFetcher) Fetch(ctx context.Context, q Query) ([]RawRecord, error) {
	target, err := f.buildURL(q)
	if err != nil {
		return nil, NewFetchError(ErrCodeFetch, "invalid endpoint").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, NewFetchError(ErrCodeFetch, "build request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, NewFetchError(ErrCodeFetchTimeout, "request timed out").
				WithCause(err).WithMetadata("url", target)
		}
		return nil, NewFetchError(ErrCodeFetch, "request failed").
			WithCause(err).WithMetadata("url", target)
	}
	defer resp.Body.Close()

	f.logger.Debug("GET %s -> %d in %v", target, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewFetchError(ErrCodeFetchStatus, "unexpected status").
			WithDetails(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))).
			WithMetadata("url", target).
			WithMetadata("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, NewFetchError(ErrCodeFetchTimeout, "reading body timed out").WithCause(err)
		}
		return nil, NewFetchError(ErrCodeFetch, "read body").WithCause(err)
	}

	return DecodeEnvelope(body)
}

// DecodeEnvelope extracts value.list from a provider response body
func DecodeEnvelope(body []byte) ([]RawRecord, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewParseError("response is not a draw envelope").WithCause(err)
	}
	if env.Value == nil {
		return nil, NewParseError("missing field").WithDetails("value")
	}
	if env.Value.List == nil {
		return nil, NewParseError("missing field").WithDetails("value.list")
	}

	records := make([]RawRecord, 0, len(*env.Value.List))
	for _, r := range *env.Value.List {
		if r != nil {
			records = append(records, r)
		}
	}
	return records, nil
}

func (f *HTTPFetcher) buildURL(q Query) (string, error) {
	u, err := url.Parse(q.Endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidEndpoint
	}

	params := u.Query()
	for k, vs := range f.extra {
		for _, v := range vs {
			params.Set(k, v)
		}
	}
	for k, vs := range q.Values() {
		params[k] = vs
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
