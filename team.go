package slacknet

import (
	"context"
	"sort"
	"time"
)

type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	URL            string `json:"url,omitempty"`
	Domain         string `json:"domain"`
	EmailDomain    string `json:"email_domain"`
	Icon           Icons  `json:"icon"`
	AvatarBaseURL  string `json:"avatar_base_url,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	EnterpriseID   string `json:"enterprise_id,omitempty"`
	EnterpriseName string `json:"enterprise_name,omitempty"`
}

// Icons holds image URLs keyed by size, e.g. "image_34".
type Icons struct {
	ImageDefault bool   `json:"image_default,omitempty"`
	Image34      string `json:"image_34,omitempty"`
	Image44      string `json:"image_44,omitempty"`
	Image68      string `json:"image_68,omitempty"`
	Image88      string `json:"image_88,omitempty"`
	Image102     string `json:"image_102,omitempty"`
	Image132     string `json:"image_132,omitempty"`
	Image230     string `json:"image_230,omitempty"`
}

type TeamResponse struct {
	Team Team `json:"team"`
}

type BillableInfo struct {
	UserID        string `json:"-"`
	BillingActive bool   `json:"billing_active"`
}

type BillableInfoResponse struct {
	BillableInfo map[string]BillableInfo `json:"billable_info"`
}

type Login struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	DateFirst time.Time `json:"date_first"`
	DateLast  time.Time `json:"date_last"`
	Count     int       `json:"count"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	ISP       string    `json:"isp"`
	Country   string    `json:"country"`
	Region    string    `json:"region"`
}

type AccessLogsResponse struct {
	Logins []Login `json:"logins"`
	Paging Paging  `json:"paging"`
}

// ChangeType is the kind of change recorded in an integration log.
type ChangeType int

const (
	ChangeTypeUnknown ChangeType = iota
	ChangeTypeAdded
	ChangeTypeRemoved
	ChangeTypeEnabled
	ChangeTypeDisabled
	ChangeTypeExpanded
	ChangeTypeUpdated
)

func (ChangeType) EnumNames() []string {
	return []string{"Unknown", "Added", "Removed", "Enabled", "Disabled", "Expanded", "Updated"}
}

type IntegrationLog struct {
	ServiceID   string     `json:"service_id,omitempty"`
	ServiceType string     `json:"service_type,omitempty"`
	AppID       string     `json:"app_id,omitempty"`
	AppType     string     `json:"app_type,omitempty"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	Channel     string     `json:"channel,omitempty"`
	Date        time.Time  `json:"date"`
	ChangeType  ChangeType `json:"change_type"`
	Reason      string     `json:"reason,omitempty"`
	Scope       string     `json:"scope,omitempty"`
}

type IntegrationLogsResponse struct {
	Logs   []IntegrationLog `json:"logs"`
	Paging Paging           `json:"paging"`
}

// IntegrationLogsParams filters team.integrationLogs. Zero values are not
// sent.
type IntegrationLogsParams struct {
	AppID      string
	ChangeType *ChangeType
	Count      int
	Page       int
	ServiceID  string
	UserID     string
}

// TeamAPI wraps the team.* methods.
type TeamAPI struct {
	client APIClient
}

func NewTeamAPI(client APIClient) *TeamAPI {
	return &TeamAPI{client: client}
}

// AccessLogs gets the access logs for users on a team. Logs before the
// given time are returned; a nil before means now.
//
// See https://api.slack.com/methods/team.accessLogs.
func (t *TeamAPI) AccessLogs(ctx context.Context, before *time.Time, count, page int) (*AccessLogsResponse, error) {
	var resp AccessLogsResponse
	err := t.client.Get(ctx, "team.accessLogs", Args{
		"before": unixSeconds(before),
		"count":  optionalInt(count),
		"page":   optionalInt(page),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BillableInfo lists billable information for each user on the team, or
// for userID alone when it is set. Results are ordered by user ID.
//
// See https://api.slack.com/methods/team.billableInfo.
func (t *TeamAPI) BillableInfo(ctx context.Context, userID string) ([]BillableInfo, error) {
	var resp BillableInfoResponse
	if err := t.client.Get(ctx, "team.billableInfo", Args{"user": optionalString(userID)}, &resp); err != nil {
		return nil, err
	}

	out := make([]BillableInfo, 0, len(resp.BillableInfo))
	for id, info := range resp.BillableInfo {
		info.UserID = id
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

// Info provides information about your team.
//
// See https://api.slack.com/methods/team.info.
func (t *TeamAPI) Info(ctx context.Context) (*Team, error) {
	var resp TeamResponse
	if err := t.client.Get(ctx, "team.info", Args{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

// IntegrationLogs lists the integration activity logs for a team. This
// method can only be called by admins.
//
// See https://api.slack.com/methods/team.integrationLogs.
func (t *TeamAPI) IntegrationLogs(ctx context.Context, params IntegrationLogsParams) (*IntegrationLogsResponse, error) {
	var resp IntegrationLogsResponse
	err := t.client.Get(ctx, "team.integrationLogs", Args{
		"app_id":      optionalString(params.AppID),
		"change_type": params.ChangeType,
		"count":       optionalInt(params.Count),
		"page":        optionalInt(params.Page),
		"service_id":  optionalString(params.ServiceID),
		"user":        optionalString(params.UserID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func unixSeconds(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
