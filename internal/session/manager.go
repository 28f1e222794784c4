package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ricepro-web/internal/metrics"
	"ricepro-web/internal/models"
	"ricepro-web/internal/timeutil"
)

type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is published to a profile's subscribers whenever its slot changes.
type Event struct {
	Profile string       `json:"-"`
	Kind    EventKind    `json:"kind"`
	User    *models.User `json:"user,omitempty"`
	At      time.Time    `json:"at"`
}

const subscriberBuffer = 8

// Manager is the single owner of session state. Resource clients and pages
// read the token through it at dispatch time.
type Manager struct {
	store  Store
	sealer *Sealer

	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewManager wraps store. sealer may be nil, in which case payloads are
// stored as plain JSON.
func NewManager(store Store, sealer *Sealer) *Manager {
	return &Manager{
		store:  store,
		sealer: sealer,
		subs:   make(map[string]map[chan Event]struct{}),
	}
}

// Slot returns the session slot of one browser profile
func (m *Manager) Slot(profile string) *Slot {
	return &Slot{m: m, profile: profile}
}

// Ping reports whether the backing store is reachable
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Subscribe returns a channel of events for profile and a cancel func that
// must be called to release it. Slow subscribers miss events rather than
// block writers.
func (m *Manager) Subscribe(profile string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	m.mu.Lock()
	if m.subs[profile] == nil {
		m.subs[profile] = make(map[chan Event]struct{})
	}
	m.subs[profile][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[profile], ch)
			if len(m.subs[profile]) == 0 {
				delete(m.subs, profile)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (m *Manager) publish(ev Event) {
	metrics.SessionEventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs[ev.Profile] {
		select {
		case ch <- ev:
		default:
			log.Printf("[Session] Dropped %s event for slow subscriber", ev.Kind)
		}
	}
}

func (m *Manager) load(ctx context.Context, profile string) (*models.Session, error) {
	payload, err := m.store.Load(ctx, profile)
	if err != nil {
		return nil, err
	}
	if m.sealer != nil {
		if payload, err = m.sealer.Open(payload); err != nil {
			return nil, err
		}
	}
	var s models.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

func (m *Manager) save(ctx context.Context, profile string, s models.Session) error {
	if s.Token == "" {
		return errors.New("session: token is empty")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if m.sealer != nil {
		if payload, err = m.sealer.Seal(payload); err != nil {
			return err
		}
	}
	if err := m.store.Save(ctx, profile, payload); err != nil {
		return err
	}
	user := s.User
	m.publish(Event{Profile: profile, Kind: SignedIn, User: &user, At: timeutil.Now()})
	return nil
}

func (m *Manager) clear(ctx context.Context, profile string) error {
	if err := m.store.Delete(ctx, profile); err != nil {
		return err
	}
	m.publish(Event{Profile: profile, Kind: SignedOut, At: timeutil.Now()})
	return nil
}

// Slot is one browser profile's view of the session store.
type Slot struct {
	m       *Manager
	profile string
}

func (s *Slot) Profile() string { return s.profile }

// CurrentUser returns the saved session. It never fails: store errors are
// logged and read as signed out.
func (s *Slot) CurrentUser(ctx context.Context) (*models.Session, bool) {
	sess, err := s.m.load(ctx, s.profile)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Printf("[Session] Failed to read session: %v", err)
		}
		return nil, false
	}
	return sess, true
}

// SetCurrentUser persists sess, replacing any previous value.
func (s *Slot) SetCurrentUser(ctx context.Context, sess models.Session) error {
	return s.m.save(ctx, s.profile, sess)
}

func (s *Slot) Logout(ctx context.Context) error {
	return s.m.clear(ctx, s.profile)
}

func (s *Slot) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.CurrentUser(ctx)
	return ok
}

// Token yields the bearer token, if any. It matches api.TokenSource.
func (s *Slot) Token(ctx context.Context) (string, bool) {
	sess, ok := s.CurrentUser(ctx)
	if !ok {
		return "", false
	}
	return sess.Token, true
}
