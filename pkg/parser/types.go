// Package parser turns raw chat export text into an ordered sequence of messages.
package parser

import "time"

// SystemKind classifies system messages by the event they report.
type SystemKind string

const (
	SystemKindNone         SystemKind = ""
	SystemKindEdited       SystemKind = "edited"
	SystemKindMembership   SystemKind = "membership"
	SystemKindMetadata     SystemKind = "metadata"
	SystemKindAdmin        SystemKind = "admin"
	SystemKindDisappearing SystemKind = "disappearing"

	// SystemKindUnknown marks a sender-less line whose text matched no known event phrase.
	SystemKindUnknown SystemKind = "unknown"
)

// Message is a single chat message reconstructed from one head line
// and any continuation lines that followed it.
type Message struct {
	// Timestamp is when the message was sent, in the parser's location.
	// Zero when the date or time text could not be parsed.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// Sender is the participant name. Empty for system lines.
	Sender string `json:"sender,omitempty"`

	// Body is the message text. Continuation lines are joined with "\n".
	Body string `json:"body"`

	// IsSystem is true for membership/metadata notices and edit placeholders.
	IsSystem bool `json:"isSystem"`

	// SystemKind refines IsSystem.
	SystemKind SystemKind `json:"systemKind,omitempty"`

	// LineNum is the 1-based line number of the message head.
	LineNum int `json:"lineNum"`
}

// HasTimestamp reports whether the timestamp was parsed.
func (m *Message) HasTimestamp() bool {
	return !m.Timestamp.IsZero()
}

// HasSender reports whether the message carries a sender.
func (m *Message) HasSender() bool {
	return m.Sender != ""
}

// Stats counts what happened to each input line.
type Stats struct {
	// LinesRead is every line seen, including blanks.
	LinesRead int `json:"linesRead"`

	// BlankLines were empty after trimming.
	BlankLines int `json:"blankLines"`

	// BannerLines were encryption notices.
	BannerLines int `json:"bannerLines"`

	// Continuations were appended to the previous message.
	Continuations int `json:"continuations"`

	// Dropped had no recognizable head and no open message.
	Dropped int `json:"dropped"`

	// Messages is the number of messages produced.
	Messages int `json:"messages"`

	// SystemMessages is the subset of Messages flagged as system.
	SystemMessages int `json:"systemMessages"`

	// MissingTimestamps counts messages whose timestamp could not be parsed.
	MissingTimestamps int `json:"missingTimestamps"`
}
