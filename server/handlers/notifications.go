package handlers

import (
	"studygroup/apperrors"
	"studygroup/services/notify"
	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
)

func HandleListNotifications(ns *notify.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return c.JSON([]storage.Notification{})
		}
		return c.JSON(ns.ListFor(userID))
	}
}

type markReadRequest struct {
	UserID string `json:"userId"`
}

func HandleMarkNotificationsRead(ns *notify.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req markReadRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		ns.MarkAllRead(req.UserID)
		return c.JSON(fiber.Map{"success": true})
	}
}
