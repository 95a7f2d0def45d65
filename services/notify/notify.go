package notify

import (
	"time"

	"studygroup/pkg/metrics"
	"studygroup/storage"
)

// Service keeps the append-only notification log.
type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// ListFor returns a recipient's notifications, newest first.
func (s *Service) ListFor(userID string) []storage.Notification {
	all := s.store.Notifications()

	mine := make([]storage.Notification, 0)
	for _, n := range all {
		if n.RecipientID == userID {
			mine = append(mine, n)
		}
	}

	// Stored order is append order; reverse to show newest first.
	for i, j := 0, len(mine)-1; i < j; i, j = i+1, j-1 {
		mine[i], mine[j] = mine[j], mine[i]
	}
	return mine
}

// MarkAllRead flips every unread notification for the recipient. The file is
// only rewritten when something actually changed.
func (s *Service) MarkAllRead(userID string) {
	s.store.UpdateNotifications(func(notis []storage.Notification) ([]storage.Notification, bool) {
		updated := false
		for i := range notis {
			if notis[i].RecipientID == userID && !notis[i].Read {
				notis[i].Read = true
				updated = true
			}
		}
		return notis, updated
	})
}

// EmitFollow appends a follow notification, resolving the sender's display
// name and avatar from the live user table.
func (s *Service) EmitFollow(senderID, recipientID string) {
	sender, ok := s.store.FindUser(senderID)
	senderName := "Someone"
	senderAvatar := ""
	if ok {
		senderName = sender.Name
		senderAvatar = sender.Avatar
	}

	s.append(storage.Notification{
		ID:           storage.NewNumericID(),
		RecipientID:  recipientID,
		SenderID:     senderID,
		SenderName:   senderName,
		SenderAvatar: senderAvatar,
		Message:      "started following you",
		Read:         false,
		Time:         time.Now().Format(time.RFC3339),
		Type:         storage.NotificationFollow,
	})
}

// EmitRegistration appends a registration-request notification to the tutor.
// The student name comes from the request; the avatar is resolved live.
func (s *Service) EmitRegistration(studentID, tutorID, studentName, courseTitle string) {
	senderAvatar := ""
	if sender, ok := s.store.FindUser(studentID); ok {
		senderAvatar = sender.Avatar
	}

	s.append(storage.Notification{
		ID:           storage.NewNumericID(),
		RecipientID:  tutorID,
		SenderID:     studentID,
		SenderName:   studentName,
		SenderAvatar: senderAvatar,
		Message:      "requested to join: " + courseTitle,
		Read:         false,
		Time:         time.Now().Format(time.RFC3339),
		Type:         storage.NotificationRegister,
	})
}

func (s *Service) append(n storage.Notification) {
	s.store.UpdateNotifications(func(notis []storage.Notification) ([]storage.Notification, bool) {
		return append(notis, n), true
	})
	metrics.NotificationsEmitted.WithLabelValues(n.Type).Inc()
}
