package social

import (
	"time"

	"studygroup/apperrors"
	"studygroup/pkg/logger"
	"studygroup/services/notify"
	"studygroup/storage"
)

// Service handles the follow graph.
type Service struct {
	store  *storage.Store
	notify *notify.Service
}

func NewService(store *storage.Store, notify *notify.Service) *Service {
	return &Service{store: store, notify: notify}
}

// ToggleResult reports the state after a toggle call.
type ToggleResult struct {
	IsFollowing bool `json:"isFollowing"`
	// IsFriend is true when the edge was just created and the reverse
	// edge already existed.
	IsFriend bool `json:"isFriend"`
}

// Toggle removes the (follower, following) edge if present, otherwise
// inserts it and notifies the followed user.
func (s *Service) Toggle(followerID, followingID string) (ToggleResult, error) {
	if followerID == "" || followingID == "" {
		return ToggleResult{}, apperrors.NewValidationError("followerId and followingId are required")
	}

	var result ToggleResult

	edges := s.store.UpdateFollows(func(edges []storage.Follow) []storage.Follow {
		for i, e := range edges {
			if e.FollowerID == followerID && e.FollowingID == followingID {
				return append(edges[:i], edges[i+1:]...)
			}
		}

		result.IsFollowing = true
		return append(edges, storage.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			Timestamp:   time.Now(),
		})
	})

	if result.IsFollowing {
		s.notify.EmitFollow(followerID, followingID)

		for _, e := range edges {
			if e.FollowerID == followingID && e.FollowingID == followerID {
				result.IsFriend = true
				break
			}
		}
	}

	logger.WithFields(map[string]any{
		"follower":  followerID,
		"following": followingID,
	}).Debug("follow toggled, now following: %v", result.IsFollowing)

	return result, nil
}

// Edges returns the raw edge lists touching a user.
func (s *Service) Edges(userID string) (following, followers []storage.Follow) {
	following = make([]storage.Follow, 0)
	followers = make([]storage.Follow, 0)
	for _, e := range s.store.Follows() {
		if e.FollowerID == userID {
			following = append(following, e)
		}
		if e.FollowingID == userID {
			followers = append(followers, e)
		}
	}
	return following, followers
}

// FollowList resolves one side of a user's follow graph to public profiles.
// Edges whose counterpart user no longer exists are dropped.
func (s *Service) FollowList(userID, listType string) ([]storage.PublicProfile, error) {
	if listType != "following" && listType != "followers" {
		return nil, apperrors.NewValidationError("type must be 'following' or 'followers'")
	}

	var targetIDs []string
	for _, e := range s.store.Follows() {
		switch {
		case listType == "following" && e.FollowerID == userID:
			targetIDs = append(targetIDs, e.FollowingID)
		case listType == "followers" && e.FollowingID == userID:
			targetIDs = append(targetIDs, e.FollowerID)
		}
	}

	byID := make(map[string]storage.User)
	for _, u := range s.store.Users() {
		byID[u.ID] = u
	}

	profiles := make([]storage.PublicProfile, 0, len(targetIDs))
	for _, id := range targetIDs {
		if u, ok := byID[id]; ok {
			profiles = append(profiles, u.Public())
		}
	}
	return profiles, nil
}
