package chat

import (
	"sort"
	"time"

	"studygroup/apperrors"
	"studygroup/pkg/metrics"
	"studygroup/storage"
)

const placeholderAvatar = "https://via.placeholder.com/40"

// Service handles the shared global chat and pairwise private chat.
type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// GlobalMessages returns the full stored log, whatever its size. Only the
// write path is bounded.
func (s *Service) GlobalMessages() []storage.GlobalMessage {
	return s.store.GlobalMessages()
}

// PostGlobal appends a message to the shared log and truncates the stored
// log to the most recent entries. The sender's avatar is resolved from the
// user table when the request did not carry one.
func (s *Service) PostGlobal(sender, text, avatar string) (storage.GlobalMessage, error) {
	if text == "" {
		return storage.GlobalMessage{}, apperrors.NewMessageEmpty()
	}

	if avatar == "" {
		avatar = s.avatarByName(sender)
	}

	msg := storage.GlobalMessage{
		Sender: sender,
		User:   sender,
		Text:   text,
		Avatar: avatar,
		Time:   time.Now(),
	}

	s.store.UpdateGlobalMessages(func(msgs []storage.GlobalMessage) []storage.GlobalMessage {
		log := boundedLog{max: GlobalChatLimit, msgs: msgs}
		log.push(msg)
		return log.msgs
	})

	metrics.ChatMessagesPosted.WithLabelValues("global").Inc()
	return msg, nil
}

func (s *Service) avatarByName(name string) string {
	for _, u := range s.store.Users() {
		if u.Name == name {
			return u.Avatar
		}
	}
	return placeholderAvatar
}

// SendParams carries a private message as supplied by the sender. Name and
// avatar are stored verbatim, not re-resolved from the user table.
type SendParams struct {
	FromID       string `json:"fromId"`
	ToID         string `json:"toId"`
	Message      string `json:"message"`
	SenderAvatar string `json:"senderAvatar"`
	SenderName   string `json:"senderName"`
}

// SendPrivate appends a private message, unread by default.
func (s *Service) SendPrivate(p SendParams) (storage.PrivateMessage, error) {
	if p.FromID == "" || p.ToID == "" {
		return storage.PrivateMessage{}, apperrors.NewValidationError("fromId and toId are required")
	}

	msg := storage.PrivateMessage{
		ID:           storage.NewNumericID(),
		FromID:       p.FromID,
		ToID:         p.ToID,
		Message:      p.Message,
		SenderAvatar: p.SenderAvatar,
		SenderName:   p.SenderName,
		Timestamp:    time.Now(),
		Read:         false,
	}

	s.store.AppendPrivateMessage(msg)
	metrics.ChatMessagesPosted.WithLabelValues("private").Inc()
	return msg, nil
}

// Conversation returns every message between two users, either direction,
// sorted ascending by timestamp.
func (s *Service) Conversation(userID, partnerID string) []storage.PrivateMessage {
	conversation := make([]storage.PrivateMessage, 0)
	for _, m := range s.store.PrivateMessages() {
		if (m.FromID == userID && m.ToID == partnerID) ||
			(m.FromID == partnerID && m.ToID == userID) {
			conversation = append(conversation, m)
		}
	}

	sort.SliceStable(conversation, func(i, j int) bool {
		return conversation[i].Timestamp.Before(conversation[j].Timestamp)
	})
	return conversation
}

// InboxEntry is the most recent message exchanged with one partner.
type InboxEntry struct {
	PartnerID     string    `json:"partnerId"`
	LastMessage   string    `json:"lastMessage"`
	Timestamp     time.Time `json:"timestamp"`
	PartnerName   string    `json:"partnerName"`
	PartnerAvatar string    `json:"partnerAvatar"`
}

// Inbox groups all messages touching a user by conversation partner, keeping
// only the most recent message per partner, newest conversations first.
// Partner name and avatar come from the live user table when the partner
// still exists, otherwise from the last message they sent.
func (s *Service) Inbox(userID string) []InboxEntry {
	byID := make(map[string]storage.User)
	for _, u := range s.store.Users() {
		byID[u.ID] = u
	}

	latest := make(map[string]InboxEntry)
	for _, m := range s.store.PrivateMessages() {
		var partnerID string
		switch userID {
		case m.FromID:
			partnerID = m.ToID
		case m.ToID:
			partnerID = m.FromID
		default:
			continue
		}

		prev, seen := latest[partnerID]
		if seen && !m.Timestamp.After(prev.Timestamp) {
			continue
		}

		entry := InboxEntry{
			PartnerID:   partnerID,
			LastMessage: m.Message,
			Timestamp:   m.Timestamp,
		}

		if partner, ok := byID[partnerID]; ok {
			entry.PartnerName = partner.DisplayName()
			entry.PartnerAvatar = partner.Avatar
		} else if m.FromID == partnerID {
			// Partner record is gone; fall back to what they sent.
			entry.PartnerName = m.SenderName
			entry.PartnerAvatar = m.SenderAvatar
		} else {
			entry.PartnerName = prev.PartnerName
			entry.PartnerAvatar = prev.PartnerAvatar
			if entry.PartnerName == "" {
				entry.PartnerName = "Unknown"
			}
		}

		latest[partnerID] = entry
	}

	inbox := make([]InboxEntry, 0, len(latest))
	for _, entry := range latest {
		inbox = append(inbox, entry)
	}

	sort.Slice(inbox, func(i, j int) bool {
		return inbox[i].Timestamp.After(inbox[j].Timestamp)
	})
	return inbox
}
