package types

import "github.com/m-mizutani/goerr/v2"

// UserID identifies the end user owning a set of conversations
type UserID string

// String returns the string representation of the user ID
func (x UserID) String() string {
	return string(x)
}

// Validate checks if the user ID is valid
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// ConversationID identifies one chat thread of a user
type ConversationID string

// String returns the string representation of the conversation ID
func (x ConversationID) String() string {
	return string(x)
}

// Validate checks if the conversation ID is valid
func (x ConversationID) Validate() error {
	if x == "" {
		return goerr.New("conversation ID is empty")
	}
	return nil
}

// SessionID is the opaque handle issued by the external session backend
type SessionID string

// String returns the string representation of the session ID
func (x SessionID) String() string {
	return string(x)
}

// Sender identifies who produced a turn in a conversation log
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// IsValid checks if the sender is valid
func (x Sender) IsValid() bool {
	return x == SenderUser || x == SenderBot
}

// String returns the string representation of the sender
func (x Sender) String() string {
	return string(x)
}
