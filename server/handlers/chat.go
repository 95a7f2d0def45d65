package handlers

import (
	"studygroup/apperrors"
	"studygroup/services/chat"

	"github.com/gofiber/fiber/v2"
)

func HandleGlobalChat(cs *chat.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cs.GlobalMessages())
	}
}

type globalChatRequest struct {
	// Older clients send the display name under "user", newer ones under
	// "sender"; sender wins when both are present.
	User   string `json:"user"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Avatar string `json:"avatar"`
}

func HandlePostGlobalChat(cs *chat.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req globalChatRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		sender := req.Sender
		if sender == "" {
			sender = req.User
		}

		msg, err := cs.PostGlobal(sender, req.Text, req.Avatar)
		if err != nil {
			return err
		}
		return c.JSON(msg)
	}
}

func HandleSendPrivateMessage(cs *chat.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params chat.SendParams
		if err := c.BodyParser(&params); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		if _, err := cs.SendPrivate(params); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func HandleConversation(cs *chat.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cs.Conversation(c.Params("userId"), c.Params("partnerId")))
	}
}

func HandleInbox(cs *chat.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cs.Inbox(c.Params("userId")))
	}
}
