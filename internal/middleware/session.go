package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	sessionCookieName = "LEGALWEB_SESSION"
	// maxSubmitted bounds the remembered subscription emails so the cookie stays small.
	maxSubmitted = 10
)

// SessionData is the visitor state carried in the signed session cookie.
type SessionData struct {
	ID           string       `json:"id"`
	Locale       string       `json:"locale,omitempty"`
	Subscription SessionFlash `json:"sub,omitempty"`
	Submitted    []string     `json:"submitted,omitempty"`
	CSRFToken    string       `json:"csrf,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	// internal flags; not serialized
	dirty  bool `json:"-"`
	secure bool `json:"-"`
}

// SessionFlash is the subscription form status shown on the next render.
type SessionFlash struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"msg,omitempty"`
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	// Key signs the cookie. When empty a process-ephemeral key is generated.
	Key    string
	Secure bool
	Logger *zap.Logger
}

// Session loads or initializes a session and stores it in request context.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	key := []byte(opts.Key)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte("insecure-dev-key-please-set-LEGALWEB_SERVER_SESSION_KEY")
		}
		if opts.Logger != nil {
			opts.Logger.Warn("session: using ephemeral signing key; set LEGALWEB_SERVER_SESSION_KEY for production")
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := readSessionCookie(r, key)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			sd.secure = opts.Secure
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)
			rw := NewResponseRecorder(w)
			// ensure cookie is set just before first write if needed
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					writeSessionCookie(w, sd, key, opts.Secure)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// If nothing was written yet (e.g., HEAD), persist cookie now
			if !rw.wrote && (sd.dirty || !fromCookie) {
				writeSessionCookie(w, sd, key, opts.Secure)
			}
		})
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// RememberSubmitted records an email this visitor subscribed with, keeping the newest entries.
func (s *SessionData) RememberSubmitted(email string) {
	s.Submitted = append(s.Submitted, email)
	if len(s.Submitted) > maxSubmitted {
		s.Submitted = s.Submitted[len(s.Submitted)-maxSubmitted:]
	}
	s.MarkDirty()
}

// readSessionCookie parses and verifies the session cookie
func readSessionCookie(r *http.Request, key []byte) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sigB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payloadB)
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func writeSessionCookie(w http.ResponseWriter, sd *SessionData, key []byte, secure bool) {
	b, _ := json.Marshal(sd)
	payload := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, key)
	mac.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	// httpOnly to prevent JS access
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + sig,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
