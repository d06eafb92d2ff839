package message

import (
	"errors"
	"strconv"
	"strings"
)

// Domain errors
var (
	ErrEmptyFor  = errors.New("message for tag is required")
	ErrEmptyFrom = errors.New("message sender is required")
	ErrEmptyText = errors.New("message text cannot be empty")
)

// DemoTag scopes the shared classroom guestbook on /berichten.
const DemoTag = "demo-16-februari"

const studentTagPrefix = "sieuwke-id-"

// StudentTag returns the for tag of the guestbook on a student detail page.
// The same string is used when reading and when inserting; a message saved
// under any other tag is invisible on that page.
func StudentTag(personID int) string {
	return studentTagPrefix + strconv.Itoa(personID)
}

// Message is a guestbook entry in the upstream messages collection.
type Message struct {
	ID   int    `json:"id,omitempty"`
	For  string `json:"for"`
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.For == "" {
		return ErrEmptyFor
	}
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// NewStudentMessage builds a signed message for a student's guestbook.
// PRE: personID > 0
// POST: Returns a valid message tagged with StudentTag(personID), or a domain error
func NewStudentMessage(personID int, from, text string) (Message, error) {
	m := Message{
		For:  StudentTag(personID),
		From: strings.TrimSpace(from),
		Text: strings.TrimSpace(text),
	}
	if m.From == "" {
		return Message{}, ErrEmptyFrom
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// NewDemoMessage builds an anonymous message for the classroom guestbook.
func NewDemoMessage(text string) (Message, error) {
	m := Message{For: DemoTag, Text: strings.TrimSpace(text)}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// IsValidation reports whether err is (or wraps) a message validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyFor) || errors.Is(err, ErrEmptyFrom) || errors.Is(err, ErrEmptyText)
}
