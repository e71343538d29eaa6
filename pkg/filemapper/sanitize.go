package filemapper

import (
	"net/url"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

// Sanitizer handles credential redaction in error messages and logs
type Sanitizer struct {
	tokens map[string]struct{} // Set of tokens to redact
	mu     sync.RWMutex
}

// NewSanitizer creates a sanitizer that redacts tokens
func NewSanitizer(tokens ...string) *Sanitizer {
	s := &Sanitizer{
		tokens: make(map[string]struct{}),
	}
	for _, token := range tokens {
		s.AddToken(token)
	}
	return s
}

// AddToken registers a token for sanitization, along with its query-escaped
// form as it appears in request URLs
func (s *Sanitizer) AddToken(token string) {
	if token == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = struct{}{}
	s.tokens[url.QueryEscape(token)] = struct{}{}
}

// Sanitize replaces all registered tokens with [REDACTED]
func (s *Sanitizer) Sanitize(text string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := text
	for token := range s.tokens {
		result = strings.ReplaceAll(result, token, redacted)
	}

	return result
}

// SanitizeError returns err with a sanitized message. The result still
// unwraps to err.
func (s *Sanitizer) SanitizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := s.Sanitize(err.Error())
	if msg == err.Error() {
		return err
	}
	return &sanitizedError{msg: msg, err: err}
}

type sanitizedError struct {
	msg string
	err error
}

func (e *sanitizedError) Error() string { return e.msg }

func (e *sanitizedError) Unwrap() error { return e.err }
