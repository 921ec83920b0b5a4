// Package telegramtest provides a scriptable tele.Context for handler and
// router tests. Only the methods the dispatch path touches are implemented;
// anything else panics through the embedded nil interface, which is the
// desired failure mode for an unexpected call.
package telegramtest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent records one outbound Send call.
type Sent struct {
	What any
	Opts []any
}

// Context is a fake tele.Context driven entirely by test data.
type Context struct {
	tele.Context

	User     *tele.User
	ChatRoom *tele.Chat
	Upd      tele.Update

	SendErr error

	mu        sync.Mutex
	kv        map[string]any
	SentItems []Sent
	Responses []*tele.CallbackResponse
}

// NewMessage builds a context carrying a plain text message update.
func NewMessage(userID int64, text string) *Context {
	user := &tele.User{ID: userID, FirstName: "Tester"}
	chat := &tele.Chat{ID: userID, Type: tele.ChatPrivate}
	msg := &tele.Message{Sender: user, Chat: chat, Text: text}
	return &Context{
		User:     user,
		ChatRoom: chat,
		Upd:      tele.Update{ID: nextUpdateID(), Message: msg},
		kv:       map[string]any{},
	}
}

// NewCallback builds a context carrying a callback update with raw payload data.
func NewCallback(userID int64, data string) *Context {
	user := &tele.User{ID: userID, FirstName: "Tester"}
	chat := &tele.Chat{ID: userID, Type: tele.ChatPrivate}
	msg := &tele.Message{Sender: user, Chat: chat}
	cb := &tele.Callback{Sender: user, Message: msg, Data: data}
	return &Context{
		User:     user,
		ChatRoom: chat,
		Upd:      tele.Update{ID: nextUpdateID(), Callback: cb},
		kv:       map[string]any{},
	}
}

var (
	updMu     sync.Mutex
	updSerial int
)

func nextUpdateID() int {
	updMu.Lock()
	defer updMu.Unlock()
	updSerial++
	return updSerial
}

func (c *Context) Update() tele.Update      { return c.Upd }
func (c *Context) Sender() *tele.User       { return c.User }
func (c *Context) Chat() *tele.Chat         { return c.ChatRoom }
func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }
func (c *Context) Message() *tele.Message   { return c.Upd.Message }

func (c *Context) Text() string {
	if c.Upd.Message != nil {
		return c.Upd.Message.Text
	}
	return ""
}

func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kv[key] = value
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv[key]
}

// Send records the outbound payload instead of calling the Bot API.
func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SentItems = append(c.SentItems, Sent{What: what, Opts: opts})
	return nil
}

// Respond records the callback acknowledgment.
func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp) == 0 {
		c.Responses = append(c.Responses, &tele.CallbackResponse{})
	} else {
		c.Responses = append(c.Responses, resp...)
	}
	return nil
}

// SentTexts returns every string payload passed to Send, in order.
func (c *Context) SentTexts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.SentItems {
		if t, ok := s.What.(string); ok {
			out = append(out, t)
		}
	}
	return out
}

// RespondCount returns how many times Respond was called.
func (c *Context) RespondCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Responses)
}
