// Package storage contains the Postgres-backed stores. Each store is
// independently failable: there are no cross-store transactions, and callers
// decide how much of a multi-store operation survives a partial failure.
package storage

import "github.com/jmoiron/sqlx"

// Stores bundles every store over one connection pool.
type Stores struct {
	Users    *UserStore
	Settings *SettingStore
	Messages *MessageStore
	States   *StateStore
	Feedback *FeedbackStore
}

// New builds the store bundle.
func New(db *sqlx.DB) *Stores {
	return &Stores{
		Users:    NewUserStore(db),
		Settings: NewSettingStore(db),
		Messages: NewMessageStore(db),
		States:   NewStateStore(db),
		Feedback: NewFeedbackStore(db),
	}
}
