// Package state implements the per-user conversation state machine. A user
// is either idle (no stored row) or in a named waiting state; waiting states
// with a registered continuation intercept the user's next text message
// before command parsing.
package state

import (
	"context"
	"encoding/json"
	"time"
)

// Conversation state labels.
const (
	// WaitingFeedback routes the next text message into the feedback flow.
	WaitingFeedback = "waiting_feedback"
	// WaitingName routes the next text message into the nickname flow.
	WaitingName = "waiting_name"
	// WaitingDelete holds a pending delete-confirmation token. It has no
	// text continuation: normal routing continues while it is set, and the
	// flow resolves through callbacks.
	WaitingDelete = "waiting_delete"
)

// WaitingLabels lists every non-idle label, for the stale-state sweeper.
var WaitingLabels = []string{WaitingFeedback, WaitingName, WaitingDelete}

// Record is a snapshot of one user's stored conversation state.
type Record struct {
	Label     string
	Payload   []byte
	UpdatedAt time.Time
}

// Store is the persistence contract the machine runs on. Implementations
// must give read-your-writes semantics within one event.
type Store interface {
	Get(ctx context.Context, userID int64) (*Record, error)
	Set(ctx context.Context, userID int64, label string, payload []byte) error
	Clear(ctx context.Context, userID int64) error
}

// DeletePayload is the state_data carried by a waiting_delete row.
type DeletePayload struct {
	Token string `json:"token"`
}

// EncodeDeletePayload serializes the confirmation token for storage.
func EncodeDeletePayload(token string) []byte {
	raw, _ := json.Marshal(DeletePayload{Token: token})
	return raw
}

// DecodeDeletePayload parses a waiting_delete payload. An unparsable payload
// yields an empty token, which never matches a confirmation.
func DecodeDeletePayload(raw []byte) DeletePayload {
	var p DeletePayload
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}
	return p
}
