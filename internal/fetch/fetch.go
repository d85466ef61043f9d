// Package fetch provides the outbound HTTP GET used by vacancy source
// adapters. Every request carries an explicit timeout.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "VacancyImporter/1.0"

// maxBodyBytes caps how much of a vendor response is read into memory.
const maxBodyBytes = 32 << 20

// excerptLen is how much of a response body is kept in error messages.
const excerptLen = 512

// redactedValue replaces secret query values in URLs that leave Get.
const redactedValue = "xxxxx"

// sensitiveParams are query parameter name fragments that are always masked.
var sensitiveParams = []string{"key", "token", "secret", "password"}

// Result holds the response of a GET request. URL has secret query values
// masked.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Excerpt returns the start of the body, for logging.
func (r *Result) Excerpt() string {
	if r == nil {
		return ""
	}
	return Excerpt(r.Body)
}

// Excerpt shortens a response body for logs and error messages.
func Excerpt(body []byte) string {
	if len(body) <= excerptLen {
		return string(body)
	}
	return string(body[:excerptLen]) + "..."
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Query     url.Values
	Client    *http.Client

	// SecretParams names query parameters masked in errors and results,
	// on top of names containing key, token, secret or password.
	SecretParams []string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Get performs a GET request. Query values in opts are merged into the
// URL's existing query, replacing keys that are already present.
// A non-2xx response returns both the result and an *Error.
func Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	if len(opts.Query) > 0 {
		q := parsedURL.Query()
		for key, values := range opts.Query {
			q.Del(key)
			for _, v := range values {
				q.Add(key, v)
			}
		}
		parsedURL.RawQuery = q.Encode()
	}
	target := parsedURL.String()
	shown := Redact(parsedURL, opts.SecretParams...)

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{
			URL:     shown,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = shown
		}
		return nil, &Error{
			URL:     shown,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:        shown,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	result := &Result{
		URL:         shown,
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        shown,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// Redact returns u as a string with the values of secret query parameters
// masked. A parameter is secret when it is listed in secret or its name
// contains key, token, secret or password.
func Redact(u *url.URL, secret ...string) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.Redacted()
	}

	q := u.Query()
	masked := false
	for name := range q {
		if !isSecretParam(name, secret) {
			continue
		}
		for i := range q[name] {
			q[name][i] = redactedValue
		}
		masked = true
	}

	cp := *u
	if masked {
		cp.RawQuery = q.Encode()
	}
	return cp.Redacted()
}

func isSecretParam(name string, secret []string) bool {
	lower := strings.ToLower(name)
	for _, s := range secret {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	for _, frag := range sensitiveParams {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
