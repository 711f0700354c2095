package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"darion/internal/infrastructure/logging"
)

// gmailMaxMessages limits a sync to the most recent messages
const gmailMaxMessages = 10

// GmailConfig holds an installed-app client and a long lived refresh token
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Endpoint     string // e.g. https://gmail.googleapis.com/gmail/v1
	TokenURL     string // empty means Google's token endpoint
}

// Gmail syncs the newest messages of the authorized mailbox
type Gmail struct {
	cfg    GmailConfig
	client *http.Client
}

func NewGmail(cfg GmailConfig) *Gmail {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
		TokenType:    "Bearer",
	}
	tokenSource := oauthConfig.TokenSource(context.Background(), token)

	return &Gmail{
		cfg:    cfg,
		client: oauth2.NewClient(context.Background(), tokenSource),
	}
}

func (g *Gmail) Name() string { return "Gmail" }

func (g *Gmail) Configured() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != "" && g.cfg.RefreshToken != ""
}

func (g *Gmail) Sync(ctx context.Context) (string, error) {
	var list struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	listURL := fmt.Sprintf("%s/users/me/messages?maxResults=%d", g.cfg.Endpoint, gmailMaxMessages)
	if err := getJSON(ctx, g.client, listURL, nil, &list); err != nil {
		logging.WithContext(ctx).Error("failed to list Gmail messages", zap.Error(err))
		return "Failed to sync Gmail data.", err
	}

	synced := 0
	for _, m := range list.Messages {
		if synced == gmailMaxMessages {
			break
		}
		var msg struct {
			ID string `json:"id"`
		}
		msgURL := fmt.Sprintf("%s/users/me/messages/%s?format=metadata", g.cfg.Endpoint, url.PathEscape(m.ID))
		if err := getJSON(ctx, g.client, msgURL, nil, &msg); err != nil {
			logging.WithContext(ctx).Error("failed to fetch Gmail message", zap.String("id", m.ID), zap.Error(err))
			return "Failed to sync Gmail data.", err
		}
		synced++
	}

	return fmt.Sprintf("Successfully synced %d emails from Gmail.", synced), nil
}
