package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	ctxKeySent     = "tg_sent"
	ctxKeyKeyboard = "tg_keyboard"
)

// SendStats summarizes outbound traffic produced while handling one update.
type SendStats struct {
	Sent     int
	Keyboard bool
}

// sendCounter wraps tele.Context so every delivery path bumps the counters.
type sendCounter struct{ tele.Context }

func (s sendCounter) bump(opts []interface{}) {
	n, _ := s.Get(ctxKeySent).(int)
	s.Set(ctxKeySent, n+1)
	if withKeyboard(opts) {
		s.Set(ctxKeyKeyboard, true)
	}
}

func withKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (s sendCounter) Send(what interface{}, opts ...interface{}) error {
	err := s.Context.Send(what, opts...)
	if err == nil {
		s.bump(opts)
	}
	return err
}

func (s sendCounter) Reply(what interface{}, opts ...interface{}) error {
	err := s.Context.Reply(what, opts...)
	if err == nil {
		s.bump(opts)
	}
	return err
}

func (s sendCounter) Edit(what interface{}, opts ...interface{}) error {
	err := s.Context.Edit(what, opts...)
	if err == nil {
		s.bump(opts)
	}
	return err
}

func (s sendCounter) EditOrSend(what interface{}, opts ...interface{}) error {
	err := s.Context.EditOrSend(what, opts...)
	if err == nil {
		s.bump(opts)
	}
	return err
}

// MessageMetricsMiddleware instruments the context so handler summaries can
// report how many messages an update produced and whether any carried an
// inline keyboard.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(ctxKeySent, 0)
		c.Set(ctxKeyKeyboard, false)
		return next(sendCounter{Context: c})
	}
}

// Stats reads the counters accumulated for the current update.
func Stats(c tele.Context) SendStats {
	var st SendStats
	if n, ok := c.Get(ctxKeySent).(int); ok {
		st.Sent = n
	}
	if kb, ok := c.Get(ctxKeyKeyboard).(bool); ok {
		st.Keyboard = kb
	}
	return st
}
