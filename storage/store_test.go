package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestNewCreatesCollectionFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir, nil)
	require.NoError(t, err)

	for _, file := range collectionFiles {
		data, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, "expected %s to exist", file)
		require.Equal(t, "[]", string(data))
	}
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Remove(s.path(usersFile)))

	users := s.Users()
	require.NotNil(t, users)
	require.Empty(t, users)
}

func TestReadCorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	cases := map[string]string{
		"garbage":    "not json at all",
		"non-array":  `{"id": "1"}`,
		"empty file": "",
		"truncated":  `[{"id": "1"`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(s.path(followsFile), []byte(content), 0644))
			require.Empty(t, s.Follows())
		})
	}
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)

	alice := User{
		ID:       "1700000000000",
		UserID:   "alice",
		Name:     "alice",
		Password: "hash",
		Email:    "a@x.com",
		Role:     "student",
		Bio:      "No bio yet...",
		Avatar:   "https://ui-avatars.com/api/?name=alice",
	}

	s.UpdateUsers(func(users []User) ([]User, bool) {
		return append(users, alice), true
	})

	users := s.Users()
	require.Len(t, users, 1)
	require.Equal(t, alice, users[0])
}

func TestUpdateWithoutSaveLeavesFileAlone(t *testing.T) {
	s := newTestStore(t)

	s.UpdateUsers(func(users []User) ([]User, bool) {
		return append(users, User{ID: "1"}), false
	})

	require.Empty(t, s.Users())
}

func TestFindUser(t *testing.T) {
	s := newTestStore(t)

	s.UpdateUsers(func(users []User) ([]User, bool) {
		return append(users,
			User{ID: "100", UserID: "alice", Name: "Alice"},
			User{ID: "200", UserID: "bob", Name: "Bob"},
			// A username that collides with another user's id: the id
			// match must win.
			User{ID: "300", UserID: "100", Name: "Mallory"},
		), true
	})

	u, ok := s.FindUser("200")
	require.True(t, ok)
	require.Equal(t, "Bob", u.Name)

	u, ok = s.FindUser("alice")
	require.True(t, ok)
	require.Equal(t, "Alice", u.Name)

	u, ok = s.FindUser("100")
	require.True(t, ok)
	require.Equal(t, "Alice", u.Name, "internal id match must beat username match")

	_, ok = s.FindUser("nobody")
	require.False(t, ok)

	_, ok = s.FindUser("")
	require.False(t, ok)
}

func TestStudyPostPreservesFreeFormFields(t *testing.T) {
	s := newTestStore(t)

	post := StudyPost{
		ID:      "1700000000001",
		OwnerID: "100",
		Title:   "Calculus",
		Extra: map[string]any{
			"subject":     "math",
			"price":       float64(250),
			"description": "Limits and derivatives",
		},
	}

	s.UpdatePosts(func(posts []StudyPost) ([]StudyPost, bool) {
		return append(posts, post), true
	})

	posts := s.Posts()
	require.Len(t, posts, 1)
	require.Equal(t, "Calculus", posts[0].Title)
	require.Equal(t, "math", posts[0].Extra["subject"])
	require.Equal(t, float64(250), posts[0].Extra["price"])
	require.Equal(t, "Limits and derivatives", posts[0].Extra["description"])
}

func TestUpdateRegistrationsPropagatesError(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateRegistrations(func(regs []Registration) ([]Registration, error) {
		return append(regs, Registration{ID: "1", StudentID: "s", PostID: "p"}), nil
	})
	require.NoError(t, err)
	require.Len(t, s.Registrations(), 1)

	sentinel := os.ErrInvalid
	err = s.UpdateRegistrations(func(regs []Registration) ([]Registration, error) {
		return append(regs, Registration{ID: "2"}), sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Len(t, s.Registrations(), 1, "failed update must not be written")
}
