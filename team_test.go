package slacknet

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// stubClient records the last call and decodes body into the result.
type stubClient struct {
	body   string
	err    error
	method string
	args   Args
}

func (s *stubClient) Get(_ context.Context, method string, args Args, result any) error {
	s.method, s.args = method, args
	if s.err != nil {
		return s.err
	}
	return NewJSONSettings().Unmarshal([]byte(s.body), result)
}

func (s *stubClient) Post(ctx context.Context, method string, args Args, result any) error {
	return s.Get(ctx, method, args, result)
}

func (s *stubClient) PostForm(ctx context.Context, method string, args Args, result any) error {
	return s.Get(ctx, method, args, result)
}

func TestTeamAPI_Info(t *testing.T) {
	t.Parallel()

	server, requests := newSlackServer(t, `{"ok":true,"team":{"id":"T1","name":"Acme","domain":"acme","email_domain":"acme.com","icon":{"image_34":"https://a/34.png","image_default":true},"is_verified":true}}`)

	team, err := newTestClient(server).Team().Info(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if team.ID != "T1" || team.Name != "Acme" || team.Domain != "acme" || team.EmailDomain != "acme.com" || !team.IsVerified {
		t.Errorf("unexpected team %+v", team)
	}

	if team.Icon.Image34 != "https://a/34.png" || !team.Icon.ImageDefault {
		t.Errorf("unexpected icons %+v", team.Icon)
	}

	req := requests()[0]
	if req.Method != http.MethodGet || req.Path != "/team.info" || len(req.Query) != 0 {
		t.Errorf("unexpected request %s %s?%s", req.Method, req.Path, req.Query.Encode())
	}
}

func TestTeamBillingAPI_Info(t *testing.T) {
	t.Parallel()

	server, requests := newSlackServer(t, `{"ok":true,"plan":"enterprise"}`)

	info, err := newTestClient(server).TeamBilling().Info(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Plan != "enterprise" {
		t.Errorf("expected enterprise plan, got %q", info.Plan)
	}

	if got := requests()[0].Path; got != "/team.billing.info" {
		t.Errorf("unexpected path %s", got)
	}
}

func TestTeamAPI_AccessLogs(t *testing.T) {
	t.Parallel()

	stub := &stubClient{body: `{"ok":true,"logins":[{"user_id":"U1","username":"ann","date_first":1422922864,"date_last":1422922864,"count":1,"ip":"127.0.0.1"}],"paging":{"count":100,"total":1,"page":1,"pages":1}}`}

	before := time.Unix(1700000000, 0)
	resp, err := NewTeamAPI(stub).AccessLogs(context.Background(), &before, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.method != "team.accessLogs" {
		t.Errorf("unexpected method %s", stub.method)
	}

	if stub.args["before"] != int64(1700000000) || stub.args["count"] != 100 || stub.args["page"] != nil {
		t.Errorf("unexpected args %v", stub.args)
	}

	if len(resp.Logins) != 1 {
		t.Fatalf("expected one login, got %d", len(resp.Logins))
	}

	login := resp.Logins[0]
	if login.UserID != "U1" || !login.DateFirst.Equal(time.Unix(1422922864, 0)) || login.IP != "127.0.0.1" {
		t.Errorf("unexpected login %+v", login)
	}

	if resp.Paging.Pages != 1 || resp.Paging.Count != 100 {
		t.Errorf("unexpected paging %+v", resp.Paging)
	}
}

func TestTeamAPI_BillableInfo(t *testing.T) {
	t.Parallel()

	stub := &stubClient{body: `{"ok":true,"billable_info":{"U2":{"billing_active":false},"U1":{"billing_active":true},"U3":{"billing_active":true}}}`}

	infos, err := NewTeamAPI(stub).BillableInfo(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := stub.args["user"]; !ok || stub.args["user"] != nil {
		t.Errorf("expected absent user arg, got %v", stub.args)
	}

	expected := []BillableInfo{
		{UserID: "U1", BillingActive: true},
		{UserID: "U2", BillingActive: false},
		{UserID: "U3", BillingActive: true},
	}

	if len(infos) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(infos))
	}

	for i := range expected {
		if infos[i] != expected[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, expected[i], infos[i])
		}
	}
}

func TestTeamAPI_IntegrationLogs(t *testing.T) {
	t.Parallel()

	server, requests := newSlackServer(t, `{"ok":true,"logs":[
		{"service_id":"1","service_type":"Google Calendar","user_id":"U1","user_name":"ann","channel":"#general","date":"1392163200","change_type":"enabled"},
		{"app_id":"A1","app_type":"Bot","user_id":"U2","user_name":"bob","date":"1392163201","change_type":"removed","reason":"user_deactivated","scope":"bot"},
		{"user_id":"U3","user_name":"cat","date":"1392163202","change_type":"rebooted"}
	],"paging":{"count":3,"total":3,"page":1,"pages":1}}`)

	changeType := ChangeTypeEnabled
	resp, err := newTestClient(server).Team().IntegrationLogs(context.Background(), IntegrationLogsParams{
		ChangeType: &changeType,
		Count:      3,
		UserID:     "U1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := requests()[0].Query
	if q.Get("change_type") != "enabled" || q.Get("count") != "3" || q.Get("user") != "U1" {
		t.Errorf("unexpected query %v", q)
	}

	for _, absent := range []string{"app_id", "page", "service_id"} {
		if q.Has(absent) {
			t.Errorf("absent argument %s was sent", absent)
		}
	}

	expected := []ChangeType{ChangeTypeEnabled, ChangeTypeRemoved, ChangeTypeUnknown}
	if len(resp.Logs) != len(expected) {
		t.Fatalf("expected %d logs, got %d", len(expected), len(resp.Logs))
	}

	for i, ct := range expected {
		if resp.Logs[i].ChangeType != ct {
			t.Errorf("log %d: expected change type %d, got %d", i, ct, resp.Logs[i].ChangeType)
		}
	}

	if !resp.Logs[0].Date.Equal(time.Unix(1392163200, 0)) {
		t.Errorf("unexpected date %v", resp.Logs[0].Date)
	}

	if resp.Logs[1].Reason != "user_deactivated" || resp.Logs[1].AppType != "Bot" {
		t.Errorf("unexpected log %+v", resp.Logs[1])
	}
}

func TestFilesAPI_List(t *testing.T) {
	t.Parallel()

	server, requests := newSlackServer(t, `{"ok":true,"files":[{"id":"F1","created":1531763342,"name":"report.pdf","filetype":"pdf","user":"U1","size":1024,"url_private":"https://files/F1","channels":["C1"]}],"paging":{"count":1,"total":1,"page":1,"pages":1},"response_metadata":{"next_cursor":"dXNlcjpVMEc5V0ZYTlo="}}`)

	from := time.Unix(1531700000, 0)
	resp, err := newTestClient(server).Files().List(context.Background(), FileListParams{
		ChannelID: "C1",
		TsFrom:    &from,
		Types:     []FileType{FileTypeImages, FileTypePdfs},
		Limit:     20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := requests()[0].Query
	if q.Get("channel") != "C1" || q.Get("ts_from") != "1531700000" || q.Get("types") != "images,pdfs" || q.Get("limit") != "20" {
		t.Errorf("unexpected query %v", q)
	}

	for _, absent := range []string{"user", "ts_to", "count", "page", "cursor"} {
		if q.Has(absent) {
			t.Errorf("absent argument %s was sent", absent)
		}
	}

	if len(resp.Files) != 1 {
		t.Fatalf("expected one file, got %d", len(resp.Files))
	}

	f := resp.Files[0]
	if f.ID != "F1" || f.Size != 1024 || f.URLPrivate != "https://files/F1" || !f.Created.Equal(time.Unix(1531763342, 0)) {
		t.Errorf("unexpected file %+v", f)
	}

	if len(f.Channels) != 1 || f.Channels[0] != "C1" {
		t.Errorf("unexpected channels %v", f.Channels)
	}

	if resp.ResponseMetadata.NextCursor != "dXNlcjpVMEc5V0ZYTlo=" {
		t.Errorf("unexpected cursor %q", resp.ResponseMetadata.NextCursor)
	}
}

func TestMethodWrappers_PropagateErrors(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	stub := &stubClient{err: sentinel}
	ctx := context.Background()

	if _, err := NewTeamAPI(stub).Info(ctx); !errors.Is(err, sentinel) {
		t.Errorf("Info: expected sentinel, got %v", err)
	}

	if _, err := NewTeamAPI(stub).AccessLogs(ctx, nil, 0, 0); !errors.Is(err, sentinel) {
		t.Errorf("AccessLogs: expected sentinel, got %v", err)
	}

	if _, err := NewTeamAPI(stub).BillableInfo(ctx, "U1"); !errors.Is(err, sentinel) {
		t.Errorf("BillableInfo: expected sentinel, got %v", err)
	}

	if _, err := NewTeamAPI(stub).IntegrationLogs(ctx, IntegrationLogsParams{}); !errors.Is(err, sentinel) {
		t.Errorf("IntegrationLogs: expected sentinel, got %v", err)
	}

	if _, err := NewTeamBillingAPI(stub).Info(ctx); !errors.Is(err, sentinel) {
		t.Errorf("billing Info: expected sentinel, got %v", err)
	}

	if _, err := NewFilesAPI(stub).List(ctx, FileListParams{}); !errors.Is(err, sentinel) {
		t.Errorf("List: expected sentinel, got %v", err)
	}
}
