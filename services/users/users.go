package users

import (
	"fmt"
	"net/url"

	"studygroup/apperrors"
	"studygroup/pkg/logger"
	"studygroup/storage"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultRole = "student"
	defaultBio  = "No bio yet..."

	// Avatar values at or below this length are treated as placeholders
	// and ignored on profile update.
	minAvatarLength = 50
)

// Service handles accounts and profiles.
type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// RegisterParams carries the register-user request fields.
type RegisterParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register creates a new account. Emails are unique by exact string match.
func (s *Service) Register(p RegisterParams) (storage.User, error) {
	if p.Username == "" || p.Password == "" || p.Email == "" {
		return storage.User{}, apperrors.NewValidationError("username, password and email are required")
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		logger.WithError(err).Error("password hashing failed")
		return storage.User{}, apperrors.NewInternalError("Failed to create account")
	}

	role := p.Role
	if role == "" {
		role = defaultRole
	}

	newUser := storage.User{
		ID:       storage.NewID(),
		UserID:   p.Username,
		Name:     p.Username,
		Password: hash,
		Email:    p.Email,
		Role:     role,
		Bio:      defaultBio,
		Avatar:   defaultAvatarURL(p.Username),
	}

	var regErr error
	s.store.UpdateUsers(func(users []storage.User) ([]storage.User, bool) {
		for _, u := range users {
			if u.Email == p.Email {
				regErr = apperrors.NewEmailTaken(p.Email)
				return users, false
			}
		}
		return append(users, newUser), true
	})
	if regErr != nil {
		return storage.User{}, regErr
	}

	logger.WithField("username", p.Username).Info("user registered")
	return newUser, nil
}

// Login matches the identifier against email, username or display name
// (case-sensitive) and verifies the password. Returns the stored record.
func (s *Service) Login(identifier, password string) (storage.User, error) {
	for _, u := range s.store.Users() {
		if u.Email != identifier && u.UserID != identifier && u.Name != identifier {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil {
			return u, nil
		}
	}
	return storage.User{}, apperrors.NewInvalidCredentials()
}

// List returns the public projection of every user.
func (s *Service) List() []storage.PublicProfile {
	users := s.store.Users()
	public := make([]storage.PublicProfile, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public
}

// Get resolves a user by internal id or username.
func (s *Service) Get(idOrUsername string) (storage.User, error) {
	user, ok := s.store.FindUser(idOrUsername)
	if !ok {
		return storage.User{}, apperrors.NewUserNotFound()
	}
	return user, nil
}

// UpdateParams carries the profile update fields. Name, bio and role
// overwrite unconditionally; absent fields become empty, as in the stored
// format.
type UpdateParams struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// Update overwrites a user's profile. The avatar is only replaced when the
// supplied value is longer than 50 characters, which filters out placeholder
// strings from older clients.
func (s *Service) Update(idOrUsername string, p UpdateParams) (storage.User, error) {
	var updated storage.User
	found := false

	s.store.UpdateUsers(func(users []storage.User) ([]storage.User, bool) {
		for i := range users {
			if users[i].ID != idOrUsername && users[i].UserID != idOrUsername {
				continue
			}
			users[i].Name = p.Name
			users[i].Bio = p.Bio
			users[i].Role = p.Role
			if len(p.Avatar) > minAvatarLength {
				users[i].Avatar = p.Avatar
			}
			updated = users[i]
			found = true
			return users, true
		}
		return users, false
	})

	if !found {
		return storage.User{}, apperrors.NewUserNotFound()
	}
	return updated, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func defaultAvatarURL(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(username))
}
