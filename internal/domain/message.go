package domain

import "time"

// ChatGroup is the chat type whose messages are written to the log.
// Messages from any other chat type are only echoed back as a preview.
const ChatGroup = "group"

// Message is one inbound chat message handed to the ingestion service by
// whatever transport delivered it.
type Message struct {
	Text     string
	ChatType string
	// ReceivedAt is the transport's receipt time. It becomes the fueling
	// date when the text itself carries no date.
	ReceivedAt time.Time
}

// Outcome describes what ingestion did with a message.
type Outcome string

const (
	// OutcomeSaved means the message held a valid fueling and it was stored.
	OutcomeSaved Outcome = "saved"
	// OutcomePreview means the message held a valid fueling but came from a
	// non-group chat, so it was echoed back without being stored.
	OutcomePreview Outcome = "preview"
	// OutcomeIgnored means no quantity could be extracted; nothing is stored
	// and no reply is sent.
	OutcomeIgnored Outcome = "ignored"
)

// IngestResult is returned by the ingestion service for every message.
// Reply is empty when the bot should stay silent.
type IngestResult struct {
	Outcome Outcome
	Fueling Fueling
	Reply   string
}
