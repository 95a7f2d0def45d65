package posts_test

import (
	"testing"

	"studygroup/apperrors"
	"studygroup/services/notify"
	"studygroup/services/posts"
	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type PostsTestSuite struct {
	suite.Suite
	store  *storage.Store
	notify *notify.Service
	svc    *posts.Service
}

func TestPostsSuite(t *testing.T) {
	suite.Run(t, new(PostsTestSuite))
}

func (s *PostsTestSuite) SetupTest() {
	store, err := storage.New(s.T().TempDir(), nil)
	s.Require().NoError(err)
	s.store = store
	s.notify = notify.NewService(store)
	s.svc = posts.NewService(store, s.notify)
}

func (s *PostsTestSuite) addUser(u storage.User) {
	s.store.UpdateUsers(func(users []storage.User) ([]storage.User, bool) {
		return append(users, u), true
	})
}

func (s *PostsTestSuite) TestCreateAndList() {
	s.addUser(storage.User{ID: "100", UserID: "alice", Name: "Alice", Avatar: "https://a/alice.png"})

	created := s.svc.Create(storage.StudyPost{
		OwnerID: "100",
		Title:   "Calculus",
		Extra:   map[string]any{"subject": "math"},
	})
	s.NotEmpty(created.ID)

	listed := s.svc.List()
	s.Require().Len(listed, 1)
	s.Equal("Calculus", listed[0]["title"])
	s.Equal("math", listed[0]["subject"])
	s.Equal("Alice", listed[0]["owner_name"], "owner joined from live profile")
	s.Equal("https://a/alice.png", listed[0]["owner_avatar"])
}

func (s *PostsTestSuite) TestListNewestFirst() {
	first := s.svc.Create(storage.StudyPost{Title: "First"})
	second := s.svc.Create(storage.StudyPost{Title: "Second"})

	listed := s.svc.List()
	s.Require().Len(listed, 2)
	s.Equal(second.Title, listed[0]["title"])
	s.Equal(first.Title, listed[1]["title"])
}

func (s *PostsTestSuite) TestListFallsBackToEmbeddedOwner() {
	s.svc.Create(storage.StudyPost{
		OwnerID: "gone",
		Title:   "Physics",
		Name:    "Old Owner",
		Avatar:  "https://a/old.png",
	})

	listed := s.svc.List()
	s.Require().Len(listed, 1)
	s.Equal("Old Owner", listed[0]["owner_name"])
	s.Equal("https://a/old.png", listed[0]["owner_avatar"])
}

func (s *PostsTestSuite) TestDelete() {
	created := s.svc.Create(storage.StudyPost{Title: "Calculus"})

	s.NoError(s.svc.Delete(created.ID))
	s.Empty(s.store.Posts())

	err := s.svc.Delete(created.ID)
	s.Error(err)
	s.Equal(fiber.StatusNotFound, apperrors.FromError(err).StatusCode)
}

func (s *PostsTestSuite) TestRegisterOncePerPost() {
	err := s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1", StudentName: "bob"})
	s.NoError(err)

	err = s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1", StudentName: "bob"})
	s.Error(err)
	s.Equal(fiber.StatusBadRequest, apperrors.FromError(err).StatusCode)
	s.Len(s.store.Registrations(), 1)

	// A different post is fine.
	s.NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p2"}))
	s.Len(s.store.Registrations(), 2)
}

func (s *PostsTestSuite) TestCancelThenReRegister() {
	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1"}))

	s.NoError(s.svc.Cancel("p1", "s1"))
	s.Empty(s.store.Registrations())

	err := s.svc.Cancel("p1", "s1")
	s.Error(err)
	s.Equal(fiber.StatusNotFound, apperrors.FromError(err).StatusCode)

	s.NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1"}))
	s.Len(s.store.Registrations(), 1)
}

func (s *PostsTestSuite) TestRegisterWithTutorNotification() {
	s.addUser(storage.User{ID: "t1", UserID: "tutor", Name: "Tutor"})
	s.addUser(storage.User{ID: "s1", UserID: "bob", Name: "Bob", Avatar: "https://a/bob.png"})
	course := s.svc.Create(storage.StudyPost{OwnerID: "t1", Title: "Calculus"})

	err := s.svc.Register(posts.RegisterParams{
		StudentID:   "s1",
		StudentName: "Bob",
		PostID:      course.ID,
		TutorID:     "t1",
		NotifyTutor: true,
	})
	s.Require().NoError(err)

	notis := s.notify.ListFor("t1")
	s.Require().Len(notis, 1)
	s.Equal(storage.NotificationRegister, notis[0].Type)
	s.Contains(notis[0].Message, "Calculus")
	s.Equal("Bob", notis[0].SenderName)
	s.Equal("https://a/bob.png", notis[0].SenderAvatar)
}

func (s *PostsTestSuite) TestRegisterWithoutNotification() {
	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1"}))
	s.Empty(s.store.Notifications())
}

func (s *PostsTestSuite) TestRegistrationsFilter() {
	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: "p1"}))
	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s2", PostID: "p1"}))

	s.Len(s.svc.Registrations(""), 2)
	mine := s.svc.Registrations("s1")
	s.Require().Len(mine, 1)
	s.Equal("s1", mine[0].StudentID)
}

func (s *PostsTestSuite) TestCoursesForDropsDeletedPosts() {
	calculus := s.svc.Create(storage.StudyPost{Title: "Calculus"})
	physics := s.svc.Create(storage.StudyPost{Title: "Physics"})

	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: calculus.ID}))
	s.Require().NoError(s.svc.Register(posts.RegisterParams{StudentID: "s1", PostID: physics.ID}))

	s.Require().NoError(s.svc.Delete(physics.ID))

	courses := s.svc.CoursesFor("s1")
	s.Require().Len(courses, 1)
	s.Equal("Calculus", courses[0].Title)
}
