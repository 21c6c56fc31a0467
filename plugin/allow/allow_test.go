package allow

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/Brawl345/invitebot/model"
	"github.com/Brawl345/invitebot/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	mu    sync.Mutex
	users map[int64]bool
	err   error
}

func newFakeUserService(ids ...int64) *fakeUserService {
	s := &fakeUserService{users: make(map[int64]bool)}
	for _, id := range ids {
		s.users[id] = true
	}
	return s
}

func (s *fakeUserService) Add(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.users[userID] {
		return false, nil
	}
	s.users[userID] = true
	return true, nil
}

func (s *fakeUserService) Remove(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if !s.users[userID] {
		return false, nil
	}
	delete(s.users, userID)
	return true, nil
}

func (s *fakeUserService) IsAuthorized(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID], s.err
}

func (s *fakeUserService) List(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var ids []int64
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func run(t *testing.T, p *Plugin, command string, args ...string) (string, error) {
	t.Helper()
	for _, h := range p.Handlers() {
		if h.Command() == command {
			assert.Equal(t, model.RoleAdmin, h.Role)
			return h.Run(plugin.GobotContext{
				Context: context.Background(),
				Event:   plugin.Event{SenderID: 1, Command: command, Args: args},
				Role:    model.RoleAdmin,
			})
		}
	}
	t.Fatalf("no handler for %s", command)
	return "", nil
}

func TestAddUser(t *testing.T) {
	service := newFakeUserService()
	p := New(service)

	text, err := run(t, p, "add_user", "42")
	require.NoError(t, err)
	assert.Contains(t, text, "has been added")
	assert.Contains(t, text, "<code>42</code>")

	text, err = run(t, p, "add_user", "42")
	require.NoError(t, err)
	assert.Contains(t, text, "already in the authorized list")

	assert.True(t, service.users[42])
}

func TestRemoveUser(t *testing.T) {
	service := newFakeUserService(42)
	p := New(service)

	text, err := run(t, p, "remove_user", "42")
	require.NoError(t, err)
	assert.Contains(t, text, "has been removed")

	text, err = run(t, p, "remove_user", "42")
	require.NoError(t, err)
	assert.Contains(t, text, "was not found")

	assert.False(t, service.users[42])
}

func TestUserIDValidation(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
	}{
		{"missing argument", "add_user", nil},
		{"not a number", "add_user", []string{"notanumber"}},
		{"too many arguments", "add_user", []string{"1", "2"}},
		{"overflow", "add_user", []string{"99999999999999999999"}},
		{"remove without argument", "remove_user", nil},
		{"remove not a number", "remove_user", []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newFakeUserService()
			p := New(service)

			_, err := run(t, p, tt.command, tt.args...)

			var validationErr *plugin.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Message, "Usage: <code>/"+tt.command)
			assert.Empty(t, service.users)
		})
	}
}

func TestListUsers(t *testing.T) {
	text, err := run(t, New(newFakeUserService()), "list_users")
	require.NoError(t, err)
	assert.Equal(t, "No authorized users found.", text)

	text, err = run(t, New(newFakeUserService(3, 1, 2)), "list_users")
	require.NoError(t, err)
	assert.Equal(t, "<b>Authorized users:</b>\n<code>1</code>\n<code>2</code>\n<code>3</code>", text)
}

func TestStorageErrorsPropagate(t *testing.T) {
	service := newFakeUserService()
	service.err = &model.StorageError{Op: "test", Err: errors.New("disk on fire")}
	p := New(service)

	for _, command := range []string{"add_user", "remove_user"} {
		_, err := run(t, p, command, "42")
		assert.True(t, model.IsStorageError(err), command)
	}

	_, err := run(t, p, "list_users")
	assert.True(t, model.IsStorageError(err))
}
