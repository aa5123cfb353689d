package slacknet

import (
	"context"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ClientFactory supplies the resty client used to send each request. It may
// return the same client every time; concurrent sends are left to resty.
type ClientFactory func() *resty.Client

// NewClientFactory returns a factory handing out one shared resty client
// with retries disabled and resty's own logging routed to logger.
func NewClientFactory(timeout time.Duration, logger Logger) ClientFactory {
	client := resty.New().
		SetRetryCount(0).
		SetTimeout(timeout).
		SetLogger(restyLogger{l: newSafeLogger(logger)})

	return func() *resty.Client { return client }
}

// Request is a prepared Web API call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// HTTP executes prepared requests and decodes their responses. Each call is
// independent; an HTTP holds no per-call state.
type HTTP struct {
	client   ClientFactory
	settings *JSONSettings
	log      Logger
}

// NewHTTP returns an executor. Nil arguments are replaced by defaults.
func NewHTTP(client ClientFactory, settings *JSONSettings, logger Logger) *HTTP {
	if logger == nil {
		logger = &NoopLogger{}
	}
	if client == nil {
		client = NewClientFactory(defaultTimeout, logger)
	}
	if settings == nil {
		settings = DefaultJSONSettings()
	}

	return &HTTP{
		client:   client,
		settings: settings,
		log:      newSafeLogger(logger),
	}
}

// Execute sends req and decodes a JSON response into result, which must be
// a pointer or nil.
//
// A transport failure is returned unchanged. HTTP 429 yields a
// *RateLimitError and any other non-2xx status a *RequestFailedError; no
// retries are made. A successful response that is not JSON leaves result
// set to its zero value.
func (h *HTTP) Execute(ctx context.Context, req *Request, result any) error {
	logContext := []any{
		"RequestID", uuid.NewString(),
		"RequestMethod", req.Method,
		"RequestURL", req.URL,
	}
	if len(req.Body) > 0 {
		logContext = append(logContext, "RequestBody", string(req.Body))
	}

	r := h.client().R().SetContext(ctx)
	for key, values := range req.Header {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		h.log.Error(err, "Error sending request", logContext...)
		return err
	}

	logContext = append(logContext,
		"ResponseStatus", resp.StatusCode(),
		"ResponseReason", reasonPhrase(resp),
		"ResponseHeaders", resp.Header(),
		"ResponseBody", string(resp.Body()),
	)
	h.log.Debug("Sent request", logContext...)

	if resp.StatusCode() == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"), time.Now())}
	}

	if !resp.IsSuccess() {
		return &RequestFailedError{
			StatusCode: resp.StatusCode(),
			Reason:     reasonPhrase(resp),
			Body:       string(resp.Body()),
		}
	}

	if !isJSON(resp.Header().Get("Content-Type")) {
		resetResult(result)
		return nil
	}

	if result == nil {
		return nil
	}

	return h.settings.Unmarshal(resp.Body(), result)
}

// Execute is a typed form of (*HTTP).Execute.
func Execute[T any](ctx context.Context, h *HTTP, req *Request) (T, error) {
	var result T
	err := h.Execute(ctx, req, &result)
	return result, err
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func reasonPhrase(resp *resty.Response) string {
	status := resp.Status()
	if _, reason, ok := strings.Cut(status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode())
}

// parseRetryAfter reads a Retry-After value given either as seconds or as
// an HTTP date. Unusable values give nil.
func parseRetryAfter(value string, now time.Time) *time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return nil
		}
		d := time.Duration(seconds) * time.Second
		return &d
	}

	if at, err := http.ParseTime(value); err == nil {
		d := at.Sub(now).Truncate(time.Second)
		if d < 0 {
			d = 0
		}
		return &d
	}

	return nil
}

func resetResult(result any) {
	if result == nil {
		return
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv.Elem().SetZero()
	}
}
