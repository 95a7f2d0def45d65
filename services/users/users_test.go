package users_test

import (
	"encoding/json"
	"strings"
	"testing"

	"studygroup/apperrors"
	"studygroup/services/users"
	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func jsonOf(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

type UsersTestSuite struct {
	suite.Suite
	store *storage.Store
	svc   *users.Service
}

func TestUsersSuite(t *testing.T) {
	suite.Run(t, new(UsersTestSuite))
}

func (s *UsersTestSuite) SetupTest() {
	store, err := storage.New(s.T().TempDir(), nil)
	s.Require().NoError(err)
	s.store = store
	s.svc = users.NewService(store)
}

func (s *UsersTestSuite) register(username, password, email string) storage.User {
	user, err := s.svc.Register(users.RegisterParams{
		Username: username,
		Password: password,
		Email:    email,
	})
	s.Require().NoError(err)
	return user
}

func (s *UsersTestSuite) TestRegisterDefaults() {
	user := s.register("alice", "pw1", "a@x.com")

	s.Equal("alice", user.UserID)
	s.Equal("alice", user.Name)
	s.Equal("student", user.Role)
	s.NotEmpty(user.Bio)
	s.Contains(user.Avatar, "ui-avatars.com")
	s.NotEqual("pw1", user.Password, "stored password must be hashed")
}

func (s *UsersTestSuite) TestRegisterDuplicateEmail() {
	s.register("alice", "pw1", "a@x.com")

	_, err := s.svc.Register(users.RegisterParams{
		Username: "alice2",
		Password: "pw2",
		Email:    "a@x.com",
	})
	s.Error(err)
	s.Equal(fiber.StatusBadRequest, apperrors.FromError(err).StatusCode)

	s.Len(s.store.Users(), 1)
}

func (s *UsersTestSuite) TestLogin() {
	registered := s.register("alice", "pw1", "a@x.com")

	// By email
	user, err := s.svc.Login("a@x.com", "pw1")
	s.NoError(err)
	s.Equal(registered.ID, user.ID)

	// By username
	user, err = s.svc.Login("alice", "pw1")
	s.NoError(err)
	s.Equal(registered.ID, user.ID)

	// Wrong password
	_, err = s.svc.Login("a@x.com", "nope")
	s.Error(err)
	s.Equal(fiber.StatusUnauthorized, apperrors.FromError(err).StatusCode)

	// Unknown identifier
	_, err = s.svc.Login("b@x.com", "pw1")
	s.Error(err)
}

func (s *UsersTestSuite) TestLoginByDisplayName() {
	alice := s.register("alice", "pw1", "a@x.com")

	_, err := s.svc.Update(alice.ID, users.UpdateParams{
		Name: "Alice W",
		Bio:  "hi",
		Role: "tutor",
	})
	s.Require().NoError(err)

	user, err := s.svc.Login("Alice W", "pw1")
	s.NoError(err)
	s.Equal(alice.ID, user.ID)
}

func (s *UsersTestSuite) TestListStripsCredentials() {
	s.register("alice", "pw1", "a@x.com")

	public := s.svc.List()
	s.Len(public, 1)
	s.Equal("alice", public[0].Name)
	// PublicProfile carries no password/email fields at all; make sure
	// the serialized form agrees.
	s.NotContains(jsonOf(s.T(), public[0]), "password")
	s.NotContains(jsonOf(s.T(), public[0]), "a@x.com")
}

func (s *UsersTestSuite) TestGetByIDOrUsername() {
	alice := s.register("alice", "pw1", "a@x.com")

	byID, err := s.svc.Get(alice.ID)
	s.NoError(err)
	s.Equal(alice.ID, byID.ID)

	byName, err := s.svc.Get("alice")
	s.NoError(err)
	s.Equal(alice.ID, byName.ID)

	_, err = s.svc.Get("missing")
	s.Error(err)
	s.Equal(fiber.StatusNotFound, apperrors.FromError(err).StatusCode)
}

func (s *UsersTestSuite) TestUpdateOverwritesProfile() {
	alice := s.register("alice", "pw1", "a@x.com")

	updated, err := s.svc.Update("alice", users.UpdateParams{
		Name: "Alice W",
		Bio:  "tutor of calculus",
		Role: "tutor",
	})
	s.NoError(err)
	s.Equal("Alice W", updated.Name)
	s.Equal("tutor of calculus", updated.Bio)
	s.Equal("tutor", updated.Role)
	s.Equal(alice.Avatar, updated.Avatar, "short avatar values must be ignored")
}

func (s *UsersTestSuite) TestUpdateAvatarHeuristic() {
	alice := s.register("alice", "pw1", "a@x.com")

	// 50 characters or fewer: treated as a placeholder, ignored.
	short := "https://short.example/a.png"
	updated, err := s.svc.Update(alice.ID, users.UpdateParams{Name: "alice", Avatar: short})
	s.NoError(err)
	s.Equal(alice.Avatar, updated.Avatar)

	long := "https://cdn.example.com/" + strings.Repeat("x", 60) + ".png"
	updated, err = s.svc.Update(alice.ID, users.UpdateParams{Name: "alice", Avatar: long})
	s.NoError(err)
	s.Equal(long, updated.Avatar)
}
