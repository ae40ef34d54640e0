package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"
)

// ContactPath is where the contact endpoint is mounted
const ContactPath = "/api/contact"

// maxBodySize bounds how much of a response body is decoded
const maxBodySize = 64 << 10

// ResponseBody is the union of every body the contact endpoint returns
type ResponseBody struct {
	Success    bool                 `json:"success,omitempty"`
	Message    string               `json:"message,omitempty"`
	ID         string               `json:"id,omitempty"`
	Error      string               `json:"error,omitempty"`
	RetryAfter int                  `json:"retryAfter,omitempty"`
	Details    []contact.FieldError `json:"details,omitempty"`
}

// Response is a decoded contact endpoint reply
type Response struct {
	StatusCode int
	Body       ResponseBody
}

// RetryAfterSeconds is the body's retryAfter, or the Retry-After header when
// the body carried none
func (r *Response) RetryAfterSeconds() int {
	return r.Body.RetryAfter
}

// Info is the endpoint's self-description served on GET
type Info struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Method         string   `json:"method"`
	RequiredFields []string `json:"requiredFields"`
	RateLimit      string   `json:"rateLimit"`
}

// Client talks to a portfolio server's contact endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts in to the contact endpoint in lang. Any HTTP status is a
// successful round trip; only transport and decode failures are errors.
func (c *Client) Send(ctx context.Context, in contact.Input, lang i18n.Language) (*Response, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ContactPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	setLanguage(req, lang)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send contact request: %w", err)
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read contact response: %w", err)
	}
	// Proxies may answer with non-JSON bodies; the status code still counts
	_ = json.Unmarshal(data, &out.Body)

	if out.Body.RetryAfter == 0 {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			out.Body.RetryAfter = secs
		}
	}
	return out, nil
}

// Info fetches the endpoint description
func (c *Client) Info(ctx context.Context, lang i18n.Language) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ContactPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create info request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	setLanguage(req, lang)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contact info returned status %d", resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to parse contact info: %w", err)
	}
	return &info, nil
}

func setLanguage(req *http.Request, lang i18n.Language) {
	if !lang.IsSupported() {
		return
	}
	req.Header.Set("Accept-Language", lang.String())
	req.AddCookie(&http.Cookie{Name: preference.LanguageKey, Value: lang.String()})
}
