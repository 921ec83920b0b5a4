package state

import (
	"context"
	"sync"

	"github.com/m3rciful/profilebot/core/logger"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
	"log/slog"
)

// Continuation handles the text message that resolves a waiting state.
type Continuation func(c tele.Context, rec Record) error

// Machine is the conversation state manager. It satisfies the router's FSM
// contract: InProgress/Handle for text interception and WithUserLock for
// serializing one user's read-decide-write window.
type Machine struct {
	store Store

	mu            sync.RWMutex
	continuations map[string]Continuation

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewMachine builds a machine over the given store.
func NewMachine(store Store) *Machine {
	return &Machine{
		store:         store,
		continuations: make(map[string]Continuation),
		locks:         make(map[int64]*userLock),
	}
}

// RegisterContinuation associates a waiting label with its text handler.
func (m *Machine) RegisterContinuation(label string, fn Continuation) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.continuations[label] = fn
}

func (m *Machine) continuation(label string) (Continuation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.continuations[label]
	return fn, ok
}

// WithUserLock runs fn while holding this user's lock. Lock entries are
// refcounted so the map does not grow with the user population.
func (m *Machine) WithUserLock(userID int64, fn func() error) error {
	m.locksMu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	err := fn()
	l.mu.Unlock()

	m.locksMu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, userID)
	}
	m.locksMu.Unlock()
	return err
}

// InProgress reports whether the user has a waiting state with a registered
// continuation. States without one (waiting_delete) do not block routing.
// Store failures degrade to idle so a broken store cannot trap all text.
func (m *Machine) InProgress(ctx context.Context, userID int64) bool {
	rec, err := m.store.Get(ctx, userID)
	if err != nil {
		logger.Error(ctx, "fsm", "state_read_failed",
			slog.Int64("user_id", userID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return false
	}
	if rec == nil {
		return false
	}
	_, ok := m.continuation(rec.Label)
	return ok
}

// Handle routes the text message to the active continuation. The caller
// holds the user lock, so the state read here matches what InProgress saw.
func (m *Machine) Handle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	rec, err := m.store.Get(ctx, userID)
	if err != nil || rec == nil {
		return nil
	}
	fn, ok := m.continuation(rec.Label)
	if !ok {
		return nil
	}
	return fn(c, *rec)
}

// Current returns the user's state record, or nil when idle.
func (m *Machine) Current(ctx context.Context, userID int64) (*Record, error) {
	return m.store.Get(ctx, userID)
}

// Begin puts the user into a waiting state with an optional payload.
func (m *Machine) Begin(ctx context.Context, userID int64, label string, payload []byte) error {
	return m.store.Set(ctx, userID, label, payload)
}

// End returns the user to idle.
func (m *Machine) End(ctx context.Context, userID int64) error {
	return m.store.Clear(ctx, userID)
}
