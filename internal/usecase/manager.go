package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/caro"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const (
	saveTimeout      = 2 * time.Second
	subscriberBuffer = 8
)

type sessionRepo interface {
	Save(ctx context.Context, state entity.SessionState) error
	GetByID(ctx context.Context, id string) (entity.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

type trackedSession struct {
	*Session
	lastSeen time.Time
}

// SessionManager owns the live sessions, mirrors their states into the snapshot store and fans
// them out to subscribers.
type SessionManager struct {
	logger *slog.Logger

	repo           sessionRepo
	gateway        walletGateway
	networks       networkRegistry
	scheduler      Scheduler
	rules          Rules
	defaultNetwork string
	newSource      func() rand.Source
	now            func() time.Time

	mu          sync.Mutex
	sessions    map[string]*trackedSession
	subscribers map[string]map[chan entity.SessionState]struct{}
}

type ManagerOption func(*SessionManager)

// WithScheduler replaces the timer based scheduler of the opponent replies.
func WithScheduler(scheduler Scheduler) ManagerOption {
	return func(m *SessionManager) {
		m.scheduler = scheduler
	}
}

// WithRandSource makes the opponents of new sessions draw from sources built by newSource.
func WithRandSource(newSource func() rand.Source) ManagerOption {
	return func(m *SessionManager) {
		m.newSource = newSource
	}
}

func NewSessionManager(
	logger *slog.Logger,
	repo sessionRepo,
	gateway walletGateway,
	networks networkRegistry,
	rules Rules,
	defaultNetwork string,
	opts ...ManagerOption,
) *SessionManager {
	manager := &SessionManager{
		logger:         logger.With("component", "session_manager"),
		repo:           repo,
		gateway:        gateway,
		networks:       networks,
		scheduler:      TimerScheduler{},
		rules:          rules,
		defaultNetwork: defaultNetwork,
		newSource: func() rand.Source {
			return rand.NewSource(time.Now().UnixNano())
		},
		now:         time.Now,
		sessions:    make(map[string]*trackedSession),
		subscribers: make(map[string]map[chan entity.SessionState]struct{}),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

func (that *SessionManager) CreateSession(ctx context.Context) (entity.SessionState, error) {
	state := NewSessionState(uuid.NewString(), that.defaultNetwork)

	if err := that.repo.Save(ctx, state); err != nil {
		return entity.SessionState{}, fmt.Errorf("failed to save session: %w", err)
	}

	that.mu.Lock()
	that.sessions[state.ID] = &trackedSession{Session: that.newSession(state), lastSeen: that.now()}
	that.mu.Unlock()

	that.logger.Info("session created", "session", state.ID)

	return state, nil
}

func (that *SessionManager) GetState(ctx context.Context, id string) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.State(), nil
}

func (that *SessionManager) Move(ctx context.Context, id string, row, col int) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.Move(row, col), nil
}

func (that *SessionManager) Reset(ctx context.Context, id string) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.Reset(), nil
}

func (that *SessionManager) Purchase(ctx context.Context, id string) (entity.SessionState, *entity.Receipt, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, nil, err
	}

	return session.Purchase(ctx)
}

func (that *SessionManager) ConnectWallet(ctx context.Context, id string) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.ConnectWallet(ctx)
}

func (that *SessionManager) DisconnectWallet(ctx context.Context, id string) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.DisconnectWallet(), nil
}

func (that *SessionManager) SwitchNetwork(ctx context.Context, id, network string) (entity.SessionState, error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.SwitchNetwork(ctx, network)
}

// Subscribe returns a channel receiving every new state of the session, starting with the
// current one. States may arrive out of order around the first one; consumers keep the highest
// Version. cancel closes the channel.
func (that *SessionManager) Subscribe(ctx context.Context, id string) (<-chan entity.SessionState, func(), error) {
	session, err := that.session(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	updates := make(chan entity.SessionState, subscriberBuffer)

	that.mu.Lock()
	if that.subscribers[id] == nil {
		that.subscribers[id] = make(map[chan entity.SessionState]struct{})
	}
	that.subscribers[id][updates] = struct{}{}
	that.mu.Unlock()

	// read outside the manager lock: sessions notify with their own lock held
	current := session.State()

	that.mu.Lock()
	offer(updates, current)
	that.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			that.mu.Lock()
			defer that.mu.Unlock()

			delete(that.subscribers[id], updates)
			if len(that.subscribers[id]) == 0 {
				delete(that.subscribers, id)
			}
			close(updates)
		})
	}

	return updates, cancel, nil
}

// EvictIdle drops sessions not touched for longer than ttl from memory. Sessions with a
// subscriber or a purchase in flight stay. Snapshots of evicted sessions stay in the store until
// the store expires them.
func (that *SessionManager) EvictIdle(ttl time.Duration) int {
	that.mu.Lock()
	candidates := make(map[string]*trackedSession)
	for id, session := range that.sessions {
		if that.isIdle(id, session, ttl) {
			candidates[id] = session
		}
	}
	that.mu.Unlock()

	var evicted []*Session
	for id, candidate := range candidates {
		// sessions lock themselves before the manager, so ask outside the manager lock
		if candidate.Purchasing() {
			continue
		}

		that.mu.Lock()
		if current, ok := that.sessions[id]; ok && current == candidate && that.isIdle(id, current, ttl) {
			delete(that.sessions, id)
			evicted = append(evicted, candidate.Session)
		}
		that.mu.Unlock()
	}

	for _, session := range evicted {
		session.Close()
	}

	return len(evicted)
}

// KeepAlive renews the snapshot expiry of every session in memory, so sessions that are only
// watched never lose their snapshot. A snapshot that already expired is written again.
func (that *SessionManager) KeepAlive(ctx context.Context) int {
	log := that.logger.With("method", "KeepAlive")

	that.mu.Lock()
	live := make(map[string]*Session, len(that.sessions))
	for id, tracked := range that.sessions {
		live[id] = tracked.Session
	}
	that.mu.Unlock()

	renewed := 0
	for id, session := range live {
		err := that.repo.Touch(ctx, id)
		if errors.Is(err, apperror.ErrSessionNotFound) {
			err = that.repo.Save(ctx, session.State())
		}

		if err != nil {
			log.Error("failed to renew session snapshot", "session", id, "error", err)
			continue
		}

		renewed++
	}

	return renewed
}

// RunJanitor evicts idle sessions and renews the snapshots of the rest every interval until ctx
// is done.
func (that *SessionManager) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	log := that.logger.With("method", "RunJanitor")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.EvictIdle(ttl); evicted > 0 {
				log.Info("idle sessions evicted", "count", evicted)
			}

			that.KeepAlive(ctx)
		}
	}
}

// isIdle must be called with the manager lock held.
func (that *SessionManager) isIdle(id string, session *trackedSession, ttl time.Duration) bool {
	return that.now().Sub(session.lastSeen) > ttl && len(that.subscribers[id]) == 0
}

// session returns the live session, restoring it from the store when it is not in memory.
func (that *SessionManager) session(ctx context.Context, id string) (*Session, error) {
	that.mu.Lock()
	if tracked, ok := that.sessions[id]; ok {
		tracked.lastSeen = that.now()
		that.mu.Unlock()

		return tracked.Session, nil
	}
	that.mu.Unlock()

	state, err := that.repo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another request may have restored it meanwhile
	if tracked, ok := that.sessions[id]; ok {
		tracked.lastSeen = that.now()
		return tracked.Session, nil
	}

	session := that.newSession(state)
	that.sessions[id] = &trackedSession{Session: session, lastSeen: that.now()}

	that.logger.Info("session restored", "session", id, "round", state.Round)

	return session, nil
}

func (that *SessionManager) newSession(state entity.SessionState) *Session {
	return NewSession(SessionDeps{
		Logger:    that.logger,
		Gateway:   that.gateway,
		Networks:  that.networks,
		Opponent:  caro.NewOpponent(that.newSource()),
		Scheduler: that.scheduler,
		Rules:     that.rules,
		Notify:    that.onChange,
	}, state)
}

// onChange stores the snapshot and fans it out. Slow subscribers lose intermediate states, never
// the latest one.
func (that *SessionManager) onChange(state entity.SessionState) {
	log := that.logger.With("method", "onChange", "session", state.ID)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := that.repo.Save(ctx, state); err != nil {
		log.Error("failed to save session snapshot", "error", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for updates := range that.subscribers[state.ID] {
		offer(updates, state)
	}
}

// offer sends without blocking, dropping the oldest queued state when the buffer is full.
func offer(updates chan entity.SessionState, state entity.SessionState) {
	select {
	case updates <- state:
		return
	default:
	}

	select {
	case <-updates:
	default:
	}

	select {
	case updates <- state:
	default:
	}
}
