// Package sessions keeps per-visitor view state in memory, keyed by a signed
// cookie. Entries expire after an idle TTL and the table is size-bounded.
package sessions

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/sha3"
)

// CookieName is the name of the session cookie.
const CookieName = "inkpot_session"

var errBadCookie = errors.New("malformed session cookie")

// Store maps session ids to values of type V.
type Store[V any] struct {
	cache  *expirable.LRU[string, V]
	secret []byte
	ttl    time.Duration
	newV   func() V
	secure bool
}

// NewStore creates a session table. An empty secret is replaced by a random
// one, which invalidates cookies across restarts.
func NewStore[V any](secret string, size int, ttl time.Duration, newV func() V) *Store[V] {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("sessions: no randomness: " + err.Error())
		}
	}
	return &Store[V]{
		cache:  expirable.NewLRU[string, V](size, nil, ttl),
		secret: key,
		ttl:    ttl,
		newV:   newV,
	}
}

// SetSecure marks issued cookies Secure.
func (s *Store[V]) SetSecure(secure bool) { s.secure = secure }

// Sign returns the cookie value for id: "<id>.<base64 HMAC-SHA3-256>".
func (s *Store[V]) Sign(id string) string {
	mac := hmac.New(sha3.New256, s.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks a cookie value and returns the session id it carries.
func (s *Store[V]) Verify(value string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", errBadCookie
	}
	id := value[:i]
	if _, err := uuid.Parse(id); err != nil {
		return "", errBadCookie
	}
	if !hmac.Equal([]byte(s.Sign(id)), []byte(value)) {
		return "", errBadCookie
	}
	return id, nil
}

// Get returns the value for id, if it is still live.
func (s *Store[V]) Get(id string) (V, bool) {
	return s.cache.Get(id)
}

// Len reports the number of live sessions.
func (s *Store[V]) Len() int { return s.cache.Len() }

// Load returns the visitor's session value, creating a new session and
// setting its cookie when the request carries none or an invalid one.
func (s *Store[V]) Load(w http.ResponseWriter, r *http.Request) (string, V) {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, err := s.Verify(c.Value); err == nil {
			if v, ok := s.cache.Get(id); ok {
				return id, v
			}
		}
	}

	id := uuid.NewString()
	v := s.newV()
	s.cache.Add(id, v)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Sign(id),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, v
}
