package social_test

import (
	"testing"

	"studygroup/services/notify"
	"studygroup/services/social"
	"studygroup/storage"

	"github.com/stretchr/testify/suite"
)

type FollowsTestSuite struct {
	suite.Suite
	store  *storage.Store
	notify *notify.Service
	svc    *social.Service
}

func TestFollowsSuite(t *testing.T) {
	suite.Run(t, new(FollowsTestSuite))
}

func (s *FollowsTestSuite) SetupTest() {
	store, err := storage.New(s.T().TempDir(), nil)
	s.Require().NoError(err)
	s.store = store
	s.notify = notify.NewService(store)
	s.svc = social.NewService(store, s.notify)
}

func (s *FollowsTestSuite) addUser(id, name string) {
	s.store.UpdateUsers(func(users []storage.User) ([]storage.User, bool) {
		return append(users, storage.User{ID: id, UserID: name, Name: name}), true
	})
}

func (s *FollowsTestSuite) TestToggleFollowAndUnfollow() {
	result, err := s.svc.Toggle("1", "2")
	s.NoError(err)
	s.True(result.IsFollowing)
	s.False(result.IsFriend)
	s.Len(s.store.Follows(), 1)

	// Toggling again removes the edge.
	result, err = s.svc.Toggle("1", "2")
	s.NoError(err)
	s.False(result.IsFollowing)
	s.False(result.IsFriend)
	s.Empty(s.store.Follows())
}

func (s *FollowsTestSuite) TestNoDuplicateEdges() {
	for i := 0; i < 4; i++ {
		_, err := s.svc.Toggle("1", "2")
		s.Require().NoError(err)
	}
	// Even number of toggles: back to the original state.
	s.Empty(s.store.Follows())

	_, err := s.svc.Toggle("1", "2")
	s.Require().NoError(err)
	s.Len(s.store.Follows(), 1)
}

func (s *FollowsTestSuite) TestMutualFollowIsFriend() {
	result, err := s.svc.Toggle("1", "2")
	s.Require().NoError(err)
	s.False(result.IsFriend)

	result, err = s.svc.Toggle("2", "1")
	s.Require().NoError(err)
	s.True(result.IsFollowing)
	s.True(result.IsFriend, "reverse edge present, both users are friends")
}

func (s *FollowsTestSuite) TestFollowEmitsNotification() {
	s.addUser("1", "alice")
	s.addUser("2", "bob")

	_, err := s.svc.Toggle("1", "2")
	s.Require().NoError(err)

	notis := s.notify.ListFor("2")
	s.Require().Len(notis, 1)
	s.Equal(storage.NotificationFollow, notis[0].Type)
	s.Equal("1", notis[0].SenderID)
	s.Equal("alice", notis[0].SenderName)
	s.False(notis[0].Read)

	// Unfollow does not notify.
	_, err = s.svc.Toggle("1", "2")
	s.Require().NoError(err)
	s.Len(s.notify.ListFor("2"), 1)
}

func (s *FollowsTestSuite) TestEdges() {
	_, err := s.svc.Toggle("1", "2")
	s.Require().NoError(err)
	_, err = s.svc.Toggle("3", "1")
	s.Require().NoError(err)

	following, followers := s.svc.Edges("1")
	s.Require().Len(following, 1)
	s.Equal("2", following[0].FollowingID)
	s.Require().Len(followers, 1)
	s.Equal("3", followers[0].FollowerID)
}

func (s *FollowsTestSuite) TestFollowListResolvesProfiles() {
	s.addUser("1", "alice")
	s.addUser("2", "bob")

	_, err := s.svc.Toggle("1", "2")
	s.Require().NoError(err)
	// Edge to a user that no longer exists.
	_, err = s.svc.Toggle("1", "999")
	s.Require().NoError(err)

	following, err := s.svc.FollowList("1", "following")
	s.NoError(err)
	s.Require().Len(following, 1, "edges to deleted users are dropped")
	s.Equal("bob", following[0].Name)

	followers, err := s.svc.FollowList("2", "followers")
	s.NoError(err)
	s.Require().Len(followers, 1)
	s.Equal("alice", followers[0].Name)

	_, err = s.svc.FollowList("1", "everything")
	s.Error(err)
}
