package conversation

import "time"

// Role identifies the speaker of an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode tags an assistant entry with the answer strategy that produced it.
type Mode string

const (
	ModeNone       Mode = ""
	ModeTranscript Mode = "transcript"
	ModeBuddy      Mode = "buddy"
	ModeBeyond     Mode = "beyond"
)

// Greeting is the synthetic opening message every session starts with.
const Greeting = "Hi! I'm here to help you understand this video better. Ask me anything about the content!"

// Entry is one message in the session conversation. CreatedAt is nil only for
// the synthetic greeting.
type Entry struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"createdAt"`
	Mode      Mode       `json:"mode,omitempty"`
}

// Log is an append-only, insertion-ordered record of exchanged messages.
type Log struct {
	entries []Entry
}

// NewLog returns a log seeded with the greeting entry.
func NewLog() *Log {
	return &Log{entries: []Entry{{Role: RoleAssistant, Text: Greeting}}}
}

// Append adds entries to the end of the log.
func (l *Log) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// AppendUser records a user question.
func (l *Log) AppendUser(text string, at time.Time) {
	l.Append(Entry{Role: RoleUser, Text: text, CreatedAt: &at})
}

// AppendAssistant records an assistant answer with an optional mode tag.
func (l *Log) AppendAssistant(text string, mode Mode, at time.Time) {
	l.Append(Entry{Role: RoleAssistant, Text: text, CreatedAt: &at, Mode: mode})
}

// Entries returns a copy of the log in insertion order.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len reports the number of entries, greeting included.
func (l *Log) Len() int {
	return len(l.entries)
}
