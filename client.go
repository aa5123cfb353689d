package slacknet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Version is the version of this package.
const Version = "0.1.0"

// APIClient is the contract method wrappers are written against: they
// build the method name and arguments, the client does the rest.
type APIClient interface {
	Get(ctx context.Context, method string, args Args, result any) error
	Post(ctx context.Context, method string, args Args, result any) error
	PostForm(ctx context.Context, method string, args Args, result any) error
}

// Client calls Slack Web API methods. It is safe for concurrent use.
type Client struct {
	options *Options

	initOnce sync.Once
	initErr  error
	settings *JSONSettings
	urls     *URLBuilder
	http     *HTTP
	log      Logger

	connectMu sync.Mutex
	identity  *AuthTestResponse
}

// New returns a new *Client. Options are validated on first use; call
// Connect to surface configuration and authentication problems early.
func New(opts ...Option) *Client {
	options := newClientOptions()

	for _, opt := range opts {
		opt(options)
	}

	return &Client{options: options}
}

func (c *Client) init() error {
	if c == nil {
		return errors.New("slack client is nil")
	}

	c.initOnce.Do(func() {
		if err := c.options.Validate(); err != nil {
			c.initErr = errors.Wrap(err, "invalid options")
			return
		}

		c.log = newSafeLogger(c.options.logger)

		c.settings = c.options.jsonSettings
		if c.settings == nil {
			c.settings = NewJSONSettings(WithSerializationLogger(c.options.logger))
		}

		factory := c.options.clientFactory
		if factory == nil {
			factory = NewClientFactory(c.options.timeout, c.options.logger)
		}

		c.urls = NewURLBuilder(c.options.baseURL, c.settings)
		c.http = NewHTTP(factory, c.settings, c.options.logger)
	})

	return c.initErr
}

// Connect validates the options and calls auth.test, once. Later calls
// return immediately.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.init(); err != nil {
		return err
	}

	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	if c.identity != nil {
		return nil
	}

	var identity AuthTestResponse
	if err := c.Get(ctx, "auth.test", nil, &identity); err != nil {
		return errors.Wrap(err, "failed to authenticate with Slack")
	}

	c.identity = &identity

	return nil
}

// Identity returns the auth.test result from Connect, or nil.
func (c *Client) Identity() *AuthTestResponse {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()
	return c.identity
}

// JSONSettings returns the settings in use, or nil if the options are
// invalid.
func (c *Client) JSONSettings() *JSONSettings {
	if c.init() != nil {
		return nil
	}
	return c.settings
}

// Get calls method with args in the query string.
func (c *Client) Get(ctx context.Context, method string, args Args, result any) error {
	if err := c.init(); err != nil {
		return err
	}

	u, err := c.urls.URL(method, args)
	if err != nil {
		return err
	}

	return c.execute(ctx, method, c.newRequest(http.MethodGet, u, "", nil), result)
}

// Post calls method with args as a JSON body.
func (c *Client) Post(ctx context.Context, method string, args Args, result any) error {
	if err := c.init(); err != nil {
		return err
	}

	_, body := args.present(c.settings)

	return c.PostJSON(ctx, method, body, result)
}

// PostJSON calls method with body encoded by the JSON settings.
func (c *Client) PostJSON(ctx context.Context, method string, body any, result any) error {
	if err := c.init(); err != nil {
		return err
	}

	data, err := c.settings.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "failed to encode body for %s", method)
	}

	u, err := c.urls.URL(method, nil)
	if err != nil {
		return err
	}

	return c.execute(ctx, method, c.newRequest(http.MethodPost, u, "application/json; charset=utf-8", data), result)
}

// PostForm calls method with args as a form-encoded body.
func (c *Client) PostForm(ctx context.Context, method string, args Args, result any) error {
	if err := c.init(); err != nil {
		return err
	}

	form, err := c.urls.Values(args)
	if err != nil {
		return errors.Wrapf(err, "failed to encode arguments for %s", method)
	}

	u, err := c.urls.URL(method, nil)
	if err != nil {
		return err
	}

	return c.execute(ctx, method, c.newRequest(http.MethodPost, u, "application/x-www-form-urlencoded", []byte(form.Encode())), result)
}

func (c *Client) newRequest(method, u, contentType string, body []byte) *Request {
	header := make(http.Header, len(c.options.requestHeaders)+2)
	for key, value := range c.options.requestHeaders {
		header.Set(key, value)
	}

	switch {
	case c.options.authToken != "":
		header.Set("Authorization", strings.TrimSpace(c.options.authScheme)+" "+c.options.authToken)
	case c.options.basicAuthUsername != "":
		credentials := c.options.basicAuthUsername + ":" + c.options.basicAuthPassword
		header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	}

	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	return &Request{Method: method, URL: u, Header: header, Body: body}
}

// execute runs req and checks the "ok" flag before decoding method data
// into result.
func (c *Client) execute(ctx context.Context, method string, req *Request, result any) error {
	var resp *webAPIResponse
	if err := c.http.Execute(ctx, req, &resp); err != nil {
		return err
	}

	if resp == nil {
		resetResult(result)
		return nil
	}

	if len(resp.warnings()) > 0 {
		c.log.Info("Slack API returned warnings", "Method", method, "Warnings", resp.warnings())
	}

	if resp.OK != nil && !*resp.OK {
		return &SlackError{
			Method:   method,
			Code:     resp.Error,
			Messages: resp.Metadata.Messages,
			Warnings: resp.warnings(),
			Needed:   resp.Needed,
			Provided: resp.Provided,
		}
	}

	if result == nil {
		return nil
	}

	return c.settings.Unmarshal(resp.raw, result)
}

// webAPIResponse is the envelope every Web API method shares.
type webAPIResponse struct {
	OK       *bool            `json:"ok"`
	Error    string           `json:"error"`
	Warning  string           `json:"warning"`
	Needed   string           `json:"needed"`
	Provided string           `json:"provided"`
	Metadata ResponseMetadata `json:"response_metadata"`

	raw []byte
}

func (r *webAPIResponse) UnmarshalJSON(data []byte) error {
	type envelope webAPIResponse

	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}

	*r = webAPIResponse(e)
	r.raw = append([]byte(nil), data...)

	return nil
}

func (r *webAPIResponse) warnings() []string {
	var warnings []string
	if r.Warning != "" {
		warnings = strings.Split(r.Warning, ",")
	}
	return append(warnings, r.Metadata.Warnings...)
}

// ResponseMetadata carries pagination cursors and diagnostics.
type ResponseMetadata struct {
	NextCursor string   `json:"next_cursor,omitempty"`
	Messages   []string `json:"messages,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Paging describes page-based pagination.
type Paging struct {
	Count int `json:"count"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type AuthTestResponse struct {
	URL                 string `json:"url"`
	Team                string `json:"team"`
	User                string `json:"user"`
	TeamID              string `json:"team_id"`
	UserID              string `json:"user_id"`
	BotID               string `json:"bot_id,omitempty"`
	EnterpriseID        string `json:"enterprise_id,omitempty"`
	IsEnterpriseInstall bool   `json:"is_enterprise_install"`
}

// Team returns the team.* methods.
func (c *Client) Team() *TeamAPI { return NewTeamAPI(c) }

// TeamBilling returns the team.billing.* methods.
func (c *Client) TeamBilling() *TeamBillingAPI { return NewTeamBillingAPI(c) }

// Files returns the files.* methods.
func (c *Client) Files() *FilesAPI { return NewFilesAPI(c) }

// OAuth returns the oauth.* methods.
func (c *Client) OAuth() *OAuthAPI { return NewOAuthAPI(c) }
