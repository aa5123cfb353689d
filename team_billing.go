package slacknet

import "context"

// BillingInfo is the body of team.billing.info, decoded without unwrapping.
type BillingInfo struct {
	Plan string `json:"plan"`
}

// TeamBillingAPI wraps the team.billing.* methods.
type TeamBillingAPI struct {
	client APIClient
}

func NewTeamBillingAPI(client APIClient) *TeamBillingAPI {
	return &TeamBillingAPI{client: client}
}

// Info reads a workspace's billing plan information.
//
// See https://api.slack.com/methods/team.billing.info.
func (t *TeamBillingAPI) Info(ctx context.Context) (*BillingInfo, error) {
	var info BillingInfo
	if err := t.client.Get(ctx, "team.billing.info", Args{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
