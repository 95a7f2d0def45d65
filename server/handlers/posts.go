package handlers

import (
	"studygroup/apperrors"
	"studygroup/services/posts"
	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
)

func HandleListPosts(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ps.List())
	}
}

func HandleCreatePost(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var post storage.StudyPost
		if err := c.BodyParser(&post); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		created := ps.Create(post)
		return c.JSON(fiber.Map{
			"success": true,
			"post":    created,
		})
	}
}

func HandleDeletePost(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ps.Delete(c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Post deleted",
		})
	}
}

type registrationRequest struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	PostID      string `json:"postId"`
}

// HandleCreateRegistration enrolls without notifying the tutor.
func HandleCreateRegistration(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registrationRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		err := ps.Register(posts.RegisterParams{
			StudentID:   req.StudentID,
			StudentName: req.StudentName,
			PostID:      req.PostID,
		})
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Registered successfully",
		})
	}
}

type registerCourseRequest struct {
	CourseID    string `json:"courseId"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	TutorID     string `json:"tutorId"`
}

// HandleRegisterCourse is the same enrollment operation with the tutor
// notification enabled.
func HandleRegisterCourse(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerCourseRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		err := ps.Register(posts.RegisterParams{
			StudentID:   req.StudentID,
			StudentName: req.StudentName,
			PostID:      req.CourseID,
			TutorID:     req.TutorID,
			NotifyTutor: true,
		})
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Registration request sent",
		})
	}
}

func HandleListRegistrations(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ps.Registrations(c.Query("studentId")))
	}
}

type cancelRegistrationRequest struct {
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
}

func HandleCancelRegistration(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cancelRegistrationRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("Invalid request body")
		}

		if err := ps.Cancel(req.CourseID, req.StudentID); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Registration cancelled",
		})
	}
}

func HandleUserCourses(ps *posts.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ps.CoursesFor(c.Params("userId")))
	}
}
