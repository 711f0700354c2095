package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"darion/internal/infrastructure/logging"
)

const timeTreeMediaType = "application/vnd.timetree.v1+json"

// TimeTreeConfig holds a personal access token and the calendar to read
type TimeTreeConfig struct {
	AccessToken string
	CalendarID  string
	Endpoint    string
}

// TimeTree syncs upcoming events of one calendar
type TimeTree struct {
	cfg    TimeTreeConfig
	client *http.Client
}

func NewTimeTree(cfg TimeTreeConfig) *TimeTree {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
	return &TimeTree{
		cfg:    cfg,
		client: oauth2.NewClient(context.Background(), ts),
	}
}

func (t *TimeTree) Name() string { return "TimeTree" }

func (t *TimeTree) Configured() bool {
	return t.cfg.AccessToken != "" && t.cfg.CalendarID != ""
}

func (t *TimeTree) Sync(ctx context.Context) (string, error) {
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/upcoming_events", t.cfg.Endpoint, url.PathEscape(t.cfg.CalendarID))
	header := http.Header{"Accept": []string{timeTreeMediaType}}

	if err := getJSON(ctx, t.client, endpoint, header, &resp); err != nil {
		logging.WithContext(ctx).Error("failed to fetch TimeTree events", zap.Error(err))
		return "Failed to sync calendar data.", err
	}
	return fmt.Sprintf("Successfully synced %d events from TimeTree calendar.", len(resp.Data)), nil
}
