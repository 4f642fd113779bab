package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"feedjoin/internal/config"
	"feedjoin/internal/connectors"
)

type Connector struct {
	service *gmail.Service
}

func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}
	return &Connector{service: svc}, nil
}

// SearchQuery limits the listing to messages with attachments, optionally
// received after q.Since.
func SearchQuery(q connectors.Query) string {
	parts := []string{"has:attachment"}
	if !q.Since.IsZero() {
		parts = append(parts, "after:"+q.Since.UTC().Format("2006/01/02"))
	}
	return strings.Join(parts, " ")
}

func (c *Connector) FetchMessages(q connectors.Query) ([]connectors.FeedMessage, error) {
	call := c.service.Users.Messages.List("me").Q(SearchQuery(q))
	if q.Label != "" {
		call = call.LabelIds(q.Label)
	}
	if q.Max > 0 {
		call = call.MaxResults(int64(q.Max))
	}
	listResp, err := call.Do()
	if err != nil {
		return nil, err
	}

	out := make([]connectors.FeedMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		if ref.Id == "" {
			continue
		}
		rawResp, err := c.service.Users.Messages.Get("me", ref.Id).Format("raw").Do()
		if err != nil {
			return nil, err
		}
		if rawResp.Raw == "" {
			continue
		}
		raw, err := decodeBase64URL(rawResp.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, toFeedMessage(ref.Id, rawResp.InternalDate, raw))
	}
	return out, nil
}

// toFeedMessage takes subject, sender and message id from the raw headers.
func toFeedMessage(id string, internalDateMs int64, raw []byte) connectors.FeedMessage {
	fm := connectors.FeedMessage{Provider: "gmail", MessageID: id, Raw: raw}
	if internalDateMs > 0 {
		fm.ReceivedAt = time.UnixMilli(internalDateMs).UTC()
	}
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return fm
	}
	if v := msg.Header.Get("Message-ID"); v != "" {
		fm.MessageID = v
	}
	fm.Subject = msg.Header.Get("Subject")
	fm.From = msg.Header.Get("From")
	if fm.ReceivedAt.IsZero() {
		if t, err := msg.Header.Date(); err == nil {
			fm.ReceivedAt = t.UTC()
		}
	}
	return fm
}

func decodeBase64URL(input string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.URLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("decode gmail raw payload: %w", err)
}
