package slacknet

import (
	"context"
	"time"
)

type OAuthTeam struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type OAuthAuthedUser struct {
	ID           string        `json:"id"`
	Scope        string        `json:"scope,omitempty"`
	AccessToken  string        `json:"access_token,omitempty"`
	TokenType    string        `json:"token_type,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	ExpiresIn    time.Duration `json:"expires_in,omitempty"`
}

// OAuthV2Response is the result of oauth.v2.access. ExpiresIn is only set
// for apps with token rotation enabled.
type OAuthV2Response struct {
	AccessToken         string          `json:"access_token"`
	TokenType           string          `json:"token_type"`
	Scope               string          `json:"scope"`
	BotUserID           string          `json:"bot_user_id,omitempty"`
	AppID               string          `json:"app_id"`
	Team                OAuthTeam       `json:"team"`
	Enterprise          *OAuthTeam      `json:"enterprise,omitempty"`
	IsEnterpriseInstall bool            `json:"is_enterprise_install"`
	AuthedUser          OAuthAuthedUser `json:"authed_user"`
	RefreshToken        string          `json:"refresh_token,omitempty"`
	ExpiresIn           time.Duration   `json:"expires_in,omitempty"`
}

// OAuthV2AccessParams are the arguments of oauth.v2.access. Either Code or
// a RefreshToken with GrantType "refresh_token" is required. ClientID and
// ClientSecret may be left empty when the client is configured with
// WithBasicAuth.
type OAuthV2AccessParams struct {
	Code         string
	RedirectURI  string
	GrantType    string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// OAuthAPI wraps the oauth.* methods.
type OAuthAPI struct {
	client APIClient
}

func NewOAuthAPI(client APIClient) *OAuthAPI {
	return &OAuthAPI{client: client}
}

// V2Access exchanges a temporary OAuth verifier code, or a refresh token,
// for an access token. The method only accepts form-encoded bodies.
//
// See https://api.slack.com/methods/oauth.v2.access.
func (o *OAuthAPI) V2Access(ctx context.Context, params OAuthV2AccessParams) (*OAuthV2Response, error) {
	var resp OAuthV2Response
	err := o.client.PostForm(ctx, "oauth.v2.access", Args{
		"code":          optionalString(params.Code),
		"redirect_uri":  optionalString(params.RedirectURI),
		"grant_type":    optionalString(params.GrantType),
		"refresh_token": optionalString(params.RefreshToken),
		"client_id":     optionalString(params.ClientID),
		"client_secret": optionalString(params.ClientSecret),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
