package posts

import (
	"time"

	"studygroup/apperrors"
	"studygroup/pkg/logger"
	"studygroup/services/notify"
	"studygroup/storage"
)

// Service handles study posts, registrations and the course-membership view.
type Service struct {
	store  *storage.Store
	notify *notify.Service
}

func NewService(store *storage.Store, notify *notify.Service) *Service {
	return &Service{store: store, notify: notify}
}

// List returns every post, newest first, left-joined with the owner's
// current name and avatar. When the owner record is gone the values embedded
// in the post at creation time are used instead.
func (s *Service) List() []map[string]any {
	allPosts := s.store.Posts()

	byID := make(map[string]storage.User)
	for _, u := range s.store.Users() {
		byID[u.ID] = u
	}

	joined := make([]map[string]any, 0, len(allPosts))
	// Stored order is append order; walk backwards to show newest first.
	for i := len(allPosts) - 1; i >= 0; i-- {
		post := allPosts[i]
		m := post.Map()

		if owner, ok := byID[post.OwnerID]; ok {
			m["owner_avatar"] = owner.Avatar
			m["owner_name"] = owner.DisplayName()
		} else {
			m["owner_avatar"] = post.Avatar
			m["owner_name"] = post.Name
		}

		joined = append(joined, m)
	}
	return joined
}

// Create assigns a timestamp id and appends the post, preserving whatever
// free-form fields the client sent.
func (s *Service) Create(post storage.StudyPost) storage.StudyPost {
	post.ID = storage.NewID()

	s.store.UpdatePosts(func(allPosts []storage.StudyPost) ([]storage.StudyPost, bool) {
		return append(allPosts, post), true
	})

	logger.WithField("title", post.Title).Info("study post created")
	return post
}

// Delete removes a post by id.
func (s *Service) Delete(id string) error {
	removed := false
	s.store.UpdatePosts(func(allPosts []storage.StudyPost) ([]storage.StudyPost, bool) {
		kept := allPosts[:0]
		for _, p := range allPosts {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, removed
	})

	if !removed {
		return apperrors.NewPostNotFound()
	}
	return nil
}

// RegisterParams covers both registration endpoints; NotifyTutor selects
// whether the tutor gets a registration-request notification.
type RegisterParams struct {
	StudentID   string
	StudentName string
	PostID      string
	TutorID     string
	NotifyTutor bool
}

// Register enrolls a student in a post. One registration per
// (student, post) pair.
func (s *Service) Register(p RegisterParams) error {
	if p.StudentID == "" || p.PostID == "" {
		return apperrors.NewValidationError("studentId and postId are required")
	}

	err := s.store.UpdateRegistrations(func(regs []storage.Registration) ([]storage.Registration, error) {
		for _, r := range regs {
			if r.StudentID == p.StudentID && r.PostID == p.PostID {
				return regs, apperrors.NewAlreadyRegistered()
			}
		}
		return append(regs, storage.Registration{
			ID:          storage.NewID(),
			StudentID:   p.StudentID,
			StudentName: p.StudentName,
			PostID:      p.PostID,
			Timestamp:   time.Now(),
		}), nil
	})
	if err != nil {
		return err
	}

	if p.NotifyTutor {
		s.notify.EmitRegistration(p.StudentID, p.TutorID, p.StudentName, s.courseTitle(p.PostID))
	}
	return nil
}

// courseTitle falls back to the post id when the post is gone.
func (s *Service) courseTitle(postID string) string {
	for _, p := range s.store.Posts() {
		if p.ID == postID {
			return p.Title
		}
	}
	return postID
}

// Registrations returns a student's registrations, or all of them when
// studentID is empty.
func (s *Service) Registrations(studentID string) []storage.Registration {
	all := s.store.Registrations()
	if studentID == "" {
		return all
	}

	mine := make([]storage.Registration, 0)
	for _, r := range all {
		if r.StudentID == studentID {
			mine = append(mine, r)
		}
	}
	return mine
}

// Cancel removes the first registration matching (post, student).
func (s *Service) Cancel(postID, studentID string) error {
	return s.store.UpdateRegistrations(func(regs []storage.Registration) ([]storage.Registration, error) {
		for i, r := range regs {
			if r.PostID == postID && r.StudentID == studentID {
				return append(regs[:i], regs[i+1:]...), nil
			}
		}
		return regs, apperrors.NewRegistrationNotFound()
	})
}

// CoursesFor derives a student's enrolled courses by joining their
// registrations against the posts collection. Registrations whose post has
// since been deleted are dropped.
func (s *Service) CoursesFor(studentID string) []storage.StudyPost {
	byID := make(map[string]storage.StudyPost)
	for _, p := range s.store.Posts() {
		byID[p.ID] = p
	}

	courses := make([]storage.StudyPost, 0)
	for _, r := range s.store.Registrations() {
		if r.StudentID != studentID {
			continue
		}
		if p, ok := byID[r.PostID]; ok {
			courses = append(courses, p)
		}
	}
	return courses
}
