// Package format holds small rendering helpers for outbound messages.
package format

import "html"

// DerefString safely dereferences a *string and returns a default value if nil.
func DerefString(s *string, defaultVal string) string {
	if s != nil {
		return *s
	}
	return defaultVal
}

// EscapeHTML escapes user-provided text for HTML parse mode messages.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}
