// Package session holds the in-memory conversation state for one chat user:
// the displayed transcript and the parallel conversation log.
package session

import "errors"

// Role identifies the speaker of a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultGreeting seeds every new transcript.
const DefaultGreeting = "안녕하세요! 어떤 데이터를 찾고 계신가요? 제가 관련 API를 찾아 볼께요!"

// DisplayLimit is the number of turns a surface renders.
const DisplayLimit = 20

// ErrInvalidRole is returned by ParseRole for anything but user or assistant.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// Turn is one message in the conversation. Values are never mutated after
// they are appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the turn was typed by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}
