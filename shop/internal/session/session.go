package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ipetrenko/cardshop/cart"
	"github.com/ipetrenko/cardshop/checkout"
	"github.com/ipetrenko/cardshop/internal/log"
)

const CookieName = "cardshop_session"

type sessionKey struct{}

// Session holds the per-visitor cart and checkout flow. Each browser
// session owns its own instances; nothing here is shared across visitors.
type Session struct {
	ID       uuid.UUID
	Cart     *cart.Cart
	Checkout *checkout.Controller

	lastSeen time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	gateway  checkout.Gateway
	ttl      time.Duration
}

func NewStore(gateway checkout.Gateway, ttl time.Duration) *Store {
	return &Store{
		sessions: map[uuid.UUID]*Session{},
		gateway:  gateway,
		ttl:      ttl,
	}
}

func (s *Store) Create() *Session {
	crt := cart.New()
	session := &Session{
		ID:       uuid.New(),
		Cart:     crt,
		Checkout: checkout.New(crt, s.gateway),
		lastSeen: time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if ok {
		session.lastSeen = time.Now()
	}
	return session, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions that have been idle longer than the store ttl and
// returns how many were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *Store) StartJanitor(c context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.Done():
				return
			case now := <-ticker.C:
				if evicted := s.Evict(now); evicted > 0 {
					logger := zerolog.Ctx(c).With().
						Str(log.KeyTag, "Store Evict").
						Int("evictedSessions", evicted).
						Logger()
					logger.Info().Msg("evicted idle sessions")
				}
			}
		}
	}()
}

// Middleware resolves the visitor session from the request cookie, creating a
// new one when the cookie is absent or stale, and attaches it to the request
// context.
func Middleware(store *Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolve(store, r)
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    session.ID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c := context.WithValue(r.Context(), sessionKey{}, session)
			logger := zerolog.Ctx(c).With().
				Str(log.KeySessionID, session.ID.String()).
				Logger()
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

func resolve(store *Store, r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return store.Create()
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return store.Create()
	}
	session, ok := store.Get(id)
	if !ok {
		return store.Create()
	}
	return session
}

func FromContext(c context.Context) *Session {
	session, _ := c.Value(sessionKey{}).(*Session)
	return session
}
