package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"feedjoin/internal/pipeline"
)

// Inbox saves mailed feeds as .eml files that the loaders read directly.
type Inbox struct {
	dir     string
	mailbox Mailbox
}

type StoredFeed struct {
	Path        string
	MessageID   string
	Subject     string
	From        string
	Attachments []string
}

type CollectResult struct {
	Fetched int
	Skipped int
	Stored  []StoredFeed
}

func NewInbox(dir string, mailbox Mailbox) *Inbox {
	return &Inbox{dir: dir, mailbox: mailbox}
}

// Collect fetches messages and keeps the ones with at least one attachment
// in a feed format. Files are named by content hash, so a message fetched
// twice is written once.
func (i *Inbox) Collect(q Query) (CollectResult, error) {
	messages, err := i.mailbox.FetchMessages(q)
	if err != nil {
		return CollectResult{}, err
	}
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return CollectResult{}, err
	}

	res := CollectResult{Fetched: len(messages)}
	for _, msg := range messages {
		names, err := pipeline.FeedAttachments(msg.Raw)
		if err != nil {
			return res, fmt.Errorf("read message %s: %w", msg.MessageID, err)
		}
		if len(names) == 0 {
			res.Skipped++
			continue
		}

		sum := sha256.Sum256(msg.Raw)
		path := filepath.Join(i.dir, hex.EncodeToString(sum[:])+".eml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, msg.Raw, 0o644); err != nil {
				return res, err
			}
		}
		res.Stored = append(res.Stored, StoredFeed{
			Path:        path,
			MessageID:   msg.MessageID,
			Subject:     msg.Subject,
			From:        msg.From,
			Attachments: names,
		})
	}
	return res, nil
}
