package handlers

import (
	"studygroup/apperrors"
	"studygroup/services/users"

	"github.com/gofiber/fiber/v2"
)

func HandleRegisterUser(us *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params users.RegisterParams
		if err := c.BodyParser(&params); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		if _, err := us.Register(params); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Account created",
		})
	}
}

type loginRequest struct {
	// The client sends whatever the user typed under "email"; it may be
	// an email, a username or a display name.
	Email    string `json:"email"`
	Password string `json:"password"`
}

func HandleLogin(us *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		user, err := us.Login(req.Email, req.Password)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"user":    user,
		})
	}
}

func HandleListUsers(us *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(us.List())
	}
}

func HandleGetUser(us *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := us.Get(c.Params("userId"))
		if err != nil {
			return err
		}
		return c.JSON(user)
	}
}

func HandleUpdateUser(us *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params users.UpdateParams
		if err := c.BodyParser(&params); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		user, err := us.Update(c.Params("userId"), params)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": "Profile updated",
			"user":    user,
		})
	}
}
