package cleanup

import (
	"encoding/json"
	"time"
)

// Kinds of cleanup work a message can carry.
const (
	KindViewEvents = "view_events"
	KindResumeFile = "resume_file"
)

const messageVersion = 1

// Message is a retry request for a cleanup step that failed during portfolio
// deletion. OwnerID is the portfolio owner; resume files are only removed
// when they belong to that user.
type Message struct {
	Kind         string `json:"kind"`
	PortfolioID  string `json:"portfolioId"`
	ResumeFileID string `json:"resumeFileId,omitempty"`
	OwnerID      string `json:"ownerId,omitempty"`
	RequestID    string `json:"requestId,omitempty"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// NewMessage stamps a message with the current time and schema version.
func NewMessage(kind, portfolioID, resumeFileID, requestID string) Message {
	return Message{
		Kind:         kind,
		PortfolioID:  portfolioID,
		ResumeFileID: resumeFileID,
		RequestID:    requestID,
		EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
		Version:      messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
