// Package slacknet is a client for the Slack Web API.
//
// Every call goes through one execution path: a method wrapper builds the
// method name and [Args], [Client] composes the request, and [HTTP] sends
// it with [github.com/go-resty/resty/v2] and decodes the JSON response
// with the shared [JSONSettings].
//
// # Basic Usage
//
//	c := slacknet.New(slacknet.WithAuthToken("xoxb-..."))
//
//	if err := c.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	team, err := c.Team().Info(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Methods without a wrapper can be called directly:
//
//	var resp struct {
//	    Channel struct{ ID string } `json:"channel"`
//	}
//	err := c.Get(ctx, "conversations.info", slacknet.Args{"channel": "C123"}, &resp)
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to [New].
// Invalid values are silently ignored and the default is retained; all
// configuration is validated on first use or when [Client.Connect] is
// called.
//
// Calls are authenticated with a token from [WithAuthToken] (sent with
// the scheme from [WithAuthScheme], "Bearer" by default). HTTP Basic
// authentication for oauth.v2.access is configured with [WithBasicAuth].
// The two methods are mutually exclusive.
//
// # JSON
//
// Struct fields without a json tag name travel in snake_case, types
// implementing [Enum] travel by their snake_case names, dates are written
// as yyyy-MM-dd, and nil values are never written. Fields whose type is an
// interface registered with a [TypeResolver] are decoded into the concrete
// type picked by the payload's discriminator, e.g. [Event] by "type" and
// "subtype". Unknown discriminators decode into the registered fallback
// type rather than failing, since Slack adds new types over time.
//
// # Errors
//
// HTTP 429 is reported as [*RateLimitError] with the Retry-After delay,
// other non-2xx responses as [*RequestFailedError], and "ok": false
// responses as [*SlackError]. Transport errors are returned unchanged.
// Nothing is retried; see [DefaultRetryPolicy] for a caller-side policy.
//
// # Logging
//
// Implement [Logger] and supply it via [WithLogger] to integrate with your
// logging library; [NewSlogLogger] and [NewLogrusLogger] adapt the common
// ones. The default [NoopLogger] discards all log output. Request and
// response bodies are logged at debug level and include tokens passed as
// arguments, so redact them before persisting logs.
package slacknet
