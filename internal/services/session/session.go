// Package session holds the process-wide authentication state: the currently
// authenticated user (or none) and a loading flag. The user service reports
// sign-in/sign-out events here; interested parties subscribe for changes
// instead of polling an ambient global.
package session

import (
	"context"
	"log/slog"
	"sync"

	"photostream/internal/domain/models"
	"photostream/internal/lib/logger/sl"
)

type State struct {
	User    *models.User
	Loading bool
}

type ProfileProvider interface {
	UserByID(ctx context.Context, userID string) (models.User, error)
}

type Provider struct {
	log      *slog.Logger
	profiles ProfileProvider

	mu      sync.RWMutex
	state   State
	subs    map[int]func(State)
	nextSub int
	started bool
}

func New(log *slog.Logger, profiles ProfileProvider) *Provider {
	return &Provider{
		log:      log,
		profiles: profiles,
		state:    State{Loading: true},
		subs:     make(map[int]func(State)),
	}
}

// Start completes initialization: the initial "no user" state is published
// and the loading flag drops. Safe to call once per process lifetime.
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.state = State{Loading: false}
	subs := p.snapshotSubs()
	state := p.state
	p.mu.Unlock()

	notify(subs, state)
}

// Stop drops every subscriber; notifications after Stop go nowhere.
func (p *Provider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = make(map[int]func(State))
}

// Subscribe registers fn for state changes and returns its unsubscribe
// function. fn is invoked synchronously on the notifying goroutine.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Provider) Current() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetAuthenticated records a signed-in user. The bare auth record (id, email)
// is merged with the extended profile document, preferring profile fields;
// when the profile lookup fails the bare record is kept as-is.
func (p *Provider) SetAuthenticated(ctx context.Context, userID, email string) {
	const op = "session.SetAuthenticated"

	user := models.User{ID: userID, Email: email}

	profile, err := p.profiles.UserByID(ctx, userID)
	if err != nil {
		p.log.Warn("falling back to bare auth record",
			slog.String("op", op),
			slog.String("user_id", userID),
			sl.Err(err),
		)
	} else {
		user = mergeProfile(user, profile)
	}

	p.mu.Lock()
	p.state = State{User: &user, Loading: false}
	subs := p.snapshotSubs()
	state := p.state
	p.mu.Unlock()

	notify(subs, state)
}

// Clear records a sign-out.
func (p *Provider) Clear() {
	p.mu.Lock()
	p.state = State{Loading: false}
	subs := p.snapshotSubs()
	state := p.state
	p.mu.Unlock()

	notify(subs, state)
}

func mergeProfile(auth, profile models.User) models.User {
	merged := profile
	if merged.ID == "" {
		merged.ID = auth.ID
	}
	if merged.Email == "" {
		merged.Email = auth.Email
	}
	return merged
}

// callers must hold p.mu
func (p *Provider) snapshotSubs() []func(State) {
	out := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
