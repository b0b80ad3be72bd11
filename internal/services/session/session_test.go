package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"photostream/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProfileProvider struct {
	mock.Mock
}

func (m *MockProfileProvider) UserByID(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func TestProvider_StartPublishesNoUser(t *testing.T) {
	ctx := context.Background()
	p := New(slog.Default(), new(MockProfileProvider))

	assert.True(t, p.Current().Loading)

	var got []State
	p.Subscribe(func(s State) { got = append(got, s) })

	p.Start(ctx)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].User)
	assert.False(t, got[0].Loading)

	// second Start is a no-op
	p.Start(ctx)
	assert.Len(t, got, 1)
}

func TestProvider_SetAuthenticated_MergesProfile(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileProvider)
	p := New(slog.Default(), profiles)
	p.Start(ctx)

	profiles.On("UserByID", ctx, "user-1").Return(models.User{
		ID:          "user-1",
		Username:    "alice",
		DisplayName: "Alice A.",
		Email:       "profile@example.com",
	}, nil)

	p.SetAuthenticated(ctx, "user-1", "auth@example.com")

	state := p.Current()
	require.NotNil(t, state.User)
	assert.Equal(t, "alice", state.User.Username)
	assert.Equal(t, "Alice A.", state.User.DisplayName)
	// profile fields win over the bare auth record
	assert.Equal(t, "profile@example.com", state.User.Email)
}

func TestProvider_SetAuthenticated_ProfileLookupFails(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileProvider)
	p := New(slog.Default(), profiles)
	p.Start(ctx)

	profiles.On("UserByID", ctx, "user-1").Return(models.User{}, errors.New("store offline"))

	p.SetAuthenticated(ctx, "user-1", "auth@example.com")

	state := p.Current()
	require.NotNil(t, state.User)
	assert.Equal(t, "user-1", state.User.ID)
	assert.Equal(t, "auth@example.com", state.User.Email)
	assert.Empty(t, state.User.Username)
}

func TestProvider_ClearNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileProvider)
	p := New(slog.Default(), profiles)
	p.Start(ctx)

	profiles.On("UserByID", ctx, "user-1").Return(models.User{ID: "user-1"}, nil)
	p.SetAuthenticated(ctx, "user-1", "a@example.com")

	var got []State
	unsubscribe := p.Subscribe(func(s State) { got = append(got, s) })

	p.Clear()

	require.Len(t, got, 1)
	assert.Nil(t, got[0].User)
	assert.Nil(t, p.Current().User)

	unsubscribe()
	p.Clear()
	assert.Len(t, got, 1)
}

func TestProvider_StopDropsSubscribers(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileProvider)
	p := New(slog.Default(), profiles)
	p.Start(ctx)

	calls := 0
	p.Subscribe(func(State) { calls++ })

	p.Stop()
	p.Clear()

	assert.Zero(t, calls)
}
