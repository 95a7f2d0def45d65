package handlers

import (
	"studygroup/apperrors"
	"studygroup/services/social"

	"github.com/gofiber/fiber/v2"
)

type toggleFollowRequest struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

func HandleToggleFollow(ss *social.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req toggleFollowRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		result, err := ss.Toggle(req.FollowerID, req.FollowingID)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success":     true,
			"isFollowing": result.IsFollowing,
			"isFriend":    result.IsFriend,
		})
	}
}

func HandleFollows(ss *social.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		following, followers := ss.Edges(c.Query("userId"))
		return c.JSON(fiber.Map{
			"following": following,
			"followers": followers,
		})
	}
}

func HandleFollowList(ss *social.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profiles, err := ss.FollowList(c.Params("userId"), c.Query("type"))
		if err != nil {
			return err
		}
		return c.JSON(profiles)
	}
}
