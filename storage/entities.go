package storage

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// User is a stored account record. The password field holds a bcrypt hash.
type User struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// PublicProfile is the projection of a user exposed to other users.
// No password, no email.
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// Public returns the projection of u safe to hand to other users.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Role:   u.Role,
		Bio:    u.Bio,
		Avatar: u.Avatar,
	}
}

// DisplayName is how post owners and chat partners are labelled: the
// current display name, falling back to the username for records that
// predate profile editing.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.UserID
}

// StudyPost is a tutor-authored listing. Posts are created from arbitrary
// request bodies, so unknown fields must round-trip unmodified; they live in
// Extra and are folded back in on marshal.
type StudyPost struct {
	ID      string
	OwnerID string
	Title   string
	// Name and Avatar are the owner's values embedded at creation time,
	// used as fallback when the owner record is gone.
	Name   string
	Avatar string
	Extra  map[string]any
}

func (p *StudyPost) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.ID = popString(m, "id")
	p.OwnerID = popString(m, "ownerId")
	p.Title = popString(m, "title")
	p.Name = popString(m, "name")
	p.Avatar = popString(m, "avatar")
	p.Extra = m
	return nil
}

func (p StudyPost) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// Map flattens the post back into its stored object form.
func (p StudyPost) Map() map[string]any {
	m := make(map[string]any, len(p.Extra)+5)
	for k, v := range p.Extra {
		m[k] = v
	}
	if p.ID != "" {
		m["id"] = p.ID
	}
	if p.OwnerID != "" {
		m["ownerId"] = p.OwnerID
	}
	if p.Title != "" {
		m["title"] = p.Title
	}
	if p.Name != "" {
		m["name"] = p.Name
	}
	if p.Avatar != "" {
		m["avatar"] = p.Avatar
	}
	return m
}

func popString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	delete(m, key)
	return s
}

// Registration ties a student to a study post. Unique per (studentId, postId).
type Registration struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	PostID      string    `json:"postId"`
	Timestamp   time.Time `json:"timestamp"`
}

// Follow is a directed edge. Unique per ordered (followerId, followingId);
// mutual edges imply "friend" status.
type Follow struct {
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notification is an append-only per-recipient record.
type Notification struct {
	ID           int64  `json:"id"`
	RecipientID  string `json:"recipientId"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar"`
	Message      string `json:"message"`
	Read         bool   `json:"read"`
	Time         string `json:"time"`
	Type         string `json:"type"`
}

// Notification types.
const (
	NotificationFollow   = "follow"
	NotificationRegister = "register"
)

// GlobalMessage is one entry in the shared chat log. The sender's display
// name is stored under both "sender" and "user" for client compatibility.
type GlobalMessage struct {
	Sender string    `json:"sender"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Avatar string    `json:"avatar"`
	Time   time.Time `json:"time"`
}

// PrivateMessage is one direction of a pairwise conversation.
type PrivateMessage struct {
	ID           int64     `json:"id"`
	FromID       string    `json:"fromId"`
	ToID         string    `json:"toId"`
	Message      string    `json:"message"`
	SenderAvatar string    `json:"senderAvatar"`
	SenderName   string    `json:"senderName"`
	Timestamp    time.Time `json:"timestamp"`
	Read         bool      `json:"read"`
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a millisecond-timestamp identifier, matching the persisted
// id format. Values are strictly increasing, so two creations in the same
// millisecond still get distinct ids.
func NewID() string {
	return strconv.FormatInt(nextID(), 10)
}

// NewNumericID is NewID for the collections that store numeric ids.
func NewNumericID() int64 {
	return nextID()
}

func nextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return now
}
