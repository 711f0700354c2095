package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"darion/internal/infrastructure/logging"
)

// GraphConfig holds the Microsoft Graph app registration
type GraphConfig struct {
	ClientID      string
	ClientSecret  string
	TenantID      string
	User          string // empty means /me
	Endpoint      string // e.g. https://graph.microsoft.com/v1.0
	LoginEndpoint string // e.g. https://login.microsoftonline.com
}

// Graph is a Microsoft Graph client authenticated with client credentials
type Graph struct {
	cfg    GraphConfig
	client *http.Client
}

// NewGraph creates a Graph client. Tokens are fetched lazily and cached.
func NewGraph(cfg GraphConfig) *Graph {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.LoginEndpoint = strings.TrimRight(cfg.LoginEndpoint, "/")

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", cfg.LoginEndpoint, cfg.TenantID),
		Scopes:       []string{graphScope(cfg.Endpoint)},
	}

	return &Graph{
		cfg:    cfg,
		client: cc.Client(context.Background()),
	}
}

// Configured reports whether credentials are present
func (g *Graph) Configured() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != "" && g.cfg.TenantID != ""
}

// graphScope turns https://graph.microsoft.com/v1.0 into
// https://graph.microsoft.com/.default
func graphScope(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "https://graph.microsoft.com/.default"
	}
	return u.Scheme + "://" + u.Host + "/.default"
}

func (g *Graph) userPath() string {
	if g.cfg.User == "" {
		return "/me"
	}
	return "/users/" + url.PathEscape(g.cfg.User)
}

// countValues returns the length of the "value" array of a collection
func (g *Graph) countValues(ctx context.Context, path string) (int, error) {
	var page struct {
		Value []map[string]interface{} `json:"value"`
	}
	if err := getJSON(ctx, g.client, g.cfg.Endpoint+g.userPath()+path, nil, &page); err != nil {
		return 0, err
	}
	return len(page.Value), nil
}

// Outlook syncs mail and calendar events
type Outlook struct{ graph *Graph }

// OneDrive syncs the drive's root folder
type OneDrive struct{ graph *Graph }

// Outlook returns the Outlook source backed by g
func (g *Graph) Outlook() *Outlook { return &Outlook{graph: g} }

// OneDrive returns the OneDrive source backed by g
func (g *Graph) OneDrive() *OneDrive { return &OneDrive{graph: g} }

func (o *Outlook) Name() string     { return "Outlook" }
func (o *Outlook) Configured() bool { return o.graph.Configured() }

func (o *Outlook) Sync(ctx context.Context) (string, error) {
	emails, err := o.graph.countValues(ctx, "/messages")
	if err != nil {
		logging.WithContext(ctx).Error("failed to fetch Outlook messages", zap.Error(err))
		return "Failed to sync Outlook data.", err
	}
	events, err := o.graph.countValues(ctx, "/events")
	if err != nil {
		logging.WithContext(ctx).Error("failed to fetch Outlook events", zap.Error(err))
		return "Failed to sync Outlook data.", err
	}
	return fmt.Sprintf("Successfully synced %d emails and %d calendar events from Outlook.", emails, events), nil
}

func (d *OneDrive) Name() string     { return "OneDrive" }
func (d *OneDrive) Configured() bool { return d.graph.Configured() }

func (d *OneDrive) Sync(ctx context.Context) (string, error) {
	files, err := d.graph.countValues(ctx, "/drive/root/children")
	if err != nil {
		logging.WithContext(ctx).Error("failed to fetch OneDrive items", zap.Error(err))
		return "Failed to sync OneDrive data.", err
	}
	return fmt.Sprintf("Successfully synced %d files from OneDrive.", files), nil
}
