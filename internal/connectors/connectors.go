package connectors

import "time"

// Query selects the messages a mailbox returns. Zero Since means no lower
// bound on the received date.
type Query struct {
	Label string
	Max   int
	Since time.Time
}

// FeedMessage is one raw RFC 822 message that may carry feed attachments.
type FeedMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt time.Time
	Raw        []byte
}

type Mailbox interface {
	FetchMessages(q Query) ([]FeedMessage, error)
}
