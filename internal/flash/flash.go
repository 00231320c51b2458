// Package flash carries one-shot user notifications across a redirect in a
// signed cookie session.
package flash

import (
	"encoding/gob" // Session value encoding
	"net/http"     // Cookies

	"github.com/gorilla/sessions" // Cookie sessions
	"github.com/sirupsen/logrus"  // Logging library
)

const sessionName = "course_catalog" // Cookie name

// Message is a notification shown once on the next rendered view
type Message struct {
	Level string `json:"level"` // success, warning or danger
	Text  string `json:"text"`  // Message body
}

func init() {
	gob.Register(Message{}) // Flashes are gob-encoded into the cookie
}

// Store reads and writes flash messages
type Store struct {
	sessions sessions.Store // Signed cookie store
}

// NewStore signs session cookies with key
func NewStore(key []byte, secure bool) *Store {
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // One week
		HttpOnly: true,
		Secure:   secure, // HTTPS only in production
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{sessions: cs}
}

// Add queues m for the next view. It must run before the response body is written
func (s *Store) Add(w http.ResponseWriter, r *http.Request, m Message) {
	// A cookie that fails to decode yields a fresh session; start over with it.
	session, _ := s.sessions.Get(r, sessionName)
	session.AddFlash(m)
	if err := session.Save(r, w); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to save flash message")
	}
}

// Pop returns and clears the queued messages
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	session, _ := s.sessions.Get(r, sessionName)
	raw := session.Flashes()
	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			out = append(out, m)
		}
	}
	// Save only when something was consumed
	if len(raw) > 0 {
		if err := session.Save(r, w); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to clear flash messages")
		}
	}
	return out
}
