package imap

import (
	"testing"
	"time"

	"github.com/emersion/go-imap"

	"feedjoin/internal/config"
)

func TestNewConnectorRequiresCredentials(t *testing.T) {
	if _, err := NewConnector(config.Config{IMAPHost: "mail.example.com"}); err == nil {
		t.Fatal("expected error for missing user")
	}
	c, err := NewConnector(config.Config{IMAPHost: "mail.example.com", IMAPPort: 993, IMAPUser: "u", IMAPPassword: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if c.host != "mail.example.com" || c.port != 993 {
		t.Fatalf("connector=%+v", c)
	}
}

func TestToFeedMessage(t *testing.T) {
	msg := &imap.Message{
		Uid:          42,
		InternalDate: time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
		Envelope: &imap.Envelope{
			Subject: "April orders",
			From:    []*imap.Address{{PersonalName: "Feeds", MailboxName: "feeds", HostName: "example.com"}},
		},
	}
	fm := toFeedMessage(msg, []byte("raw"))
	if fm.MessageID != "imap-42" || fm.Subject != "April orders" || fm.From != "Feeds <feeds@example.com>" {
		t.Fatalf("message=%+v", fm)
	}
	if fm.Provider != "imap" || string(fm.Raw) != "raw" {
		t.Fatalf("message=%+v", fm)
	}
}
