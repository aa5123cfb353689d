package slacknet

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the root of the Slack Web API.
	DefaultBaseURL = "https://slack.com/api/"

	defaultTimeout = 30 * time.Second
	minTimeout     = time.Second
	maxTimeout     = 5 * time.Minute
)

type Option func(*Options)

type Options struct {
	baseURL        string
	timeout        time.Duration
	logger         Logger
	jsonSettings   *JSONSettings
	clientFactory  ClientFactory
	requestHeaders map[string]string

	basicAuthUsername string
	basicAuthPassword string
	authScheme        string
	authToken         string
}

func newClientOptions() *Options {
	return &Options{
		baseURL:    DefaultBaseURL,
		timeout:    defaultTimeout,
		logger:     &NoopLogger{},
		authScheme: "Bearer",
		requestHeaders: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "slacknet-go/" + Version,
		},
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the timeout of the default client factory. It has no
// effect when WithClientFactory is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout >= minTimeout {
			o.timeout = timeout
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithJSONSettings shares settings built with NewJSONSettings, for example
// to register additional polymorphic types.
func WithJSONSettings(settings *JSONSettings) Option {
	return func(o *Options) {
		if settings != nil {
			o.jsonSettings = settings
		}
	}
}

func WithClientFactory(factory ClientFactory) Option {
	return func(o *Options) {
		if factory != nil {
			o.clientFactory = factory
		}
	}
}

func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || strings.EqualFold(header, "Content-Type") || strings.EqualFold(header, "Authorization") {
			return
		}

		o.requestHeaders[header] = value
	}
}

// WithBasicAuth sends HTTP Basic credentials instead of a token. Slack
// accepts an app's client ID and secret this way on oauth.v2.access.
func WithBasicAuth(username, password string) Option {
	return func(o *Options) {
		o.basicAuthUsername = username
		o.basicAuthPassword = password
	}
}

func WithAuthScheme(scheme string) Option {
	return func(o *Options) {
		o.authScheme = scheme
	}
}

// WithAuthToken sets the bot, user or app token sent with every call.
func WithAuthToken(token string) Option {
	return func(o *Options) {
		o.authToken = token
	}
}

// Validate reports the first invalid setting.
func (o *Options) Validate() error {
	u, err := url.Parse(o.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("baseURL must be an absolute http(s) URL, got %q", o.baseURL)
	}

	if o.timeout < minTimeout {
		return fmt.Errorf("timeout must be at least %v", minTimeout)
	}

	if o.timeout > maxTimeout {
		return fmt.Errorf("timeout must not exceed %v", maxTimeout)
	}

	if o.logger == nil {
		return errors.New("logger must not be nil")
	}

	if o.authToken != "" && strings.TrimSpace(o.authScheme) == "" {
		return errors.New("authScheme must be set when an auth token is used")
	}

	if o.basicAuthUsername != "" && o.authToken != "" {
		return errors.New("cannot use both basic auth and token auth - choose one")
	}

	return nil
}
