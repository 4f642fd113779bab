package connectors

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedjoin/internal/pipeline"
)

type fakeMailbox struct {
	messages []FeedMessage
	err      error
	query    Query
}

func (f *fakeMailbox) FetchMessages(q Query) ([]FeedMessage, error) {
	f.query = q
	return f.messages, f.err
}

const attachmentMail = "From: feeds@example.com\r\n" +
	"To: ops@example.com\r\n" +
	"Subject: Orders\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"B\"\r\n" +
	"\r\n" +
	"--B\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"attached\r\n" +
	"--B\r\n" +
	"Content-Type: text/csv\r\n" +
	"Content-Disposition: attachment; filename=\"orders.csv\"\r\n" +
	"\r\n" +
	"Customer Name,Account Number\r\n" +
	"Acme,1\r\n" +
	"--B--\r\n"

const plainMail = "From: someone@example.com\r\nTo: ops@example.com\r\nSubject: hello\r\n\r\nno feed here\r\n"

func TestInboxCollect(t *testing.T) {
	dir := t.TempDir()
	mb := &fakeMailbox{messages: []FeedMessage{
		{Provider: "imap", MessageID: "<1@example.com>", Subject: "Orders", Raw: []byte(attachmentMail)},
		{Provider: "imap", MessageID: "<2@example.com>", Subject: "hello", Raw: []byte(plainMail)},
		{Provider: "imap", MessageID: "<3@example.com>", Subject: "Orders again", Raw: []byte(attachmentMail)},
	}}

	res, err := NewInbox(dir, mb).Collect(Query{Label: "Feeds", Max: 10})
	require.NoError(t, err)
	assert.Equal(t, "Feeds", mb.query.Label)
	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Stored, 2)
	assert.Equal(t, []string{"orders.csv"}, res.Stored[0].Attachments)
	// Identical content lands in one file.
	assert.Equal(t, res.Stored[0].Path, res.Stored[1].Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	table, err := pipeline.LoadFile(res.Stored[0].Path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme", table.Rows[0].Value("Customer Name"))
}

func TestInboxCollectFetchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewInbox(t.TempDir(), &fakeMailbox{err: boom}).Collect(Query{})
	assert.ErrorIs(t, err, boom)
}
