package routes

import (
	"studygroup/server/handlers"
	"studygroup/services/chat"
	"studygroup/services/notify"
	"studygroup/services/posts"
	"studygroup/services/social"
	"studygroup/services/users"
	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
)

// Services bundles everything the route table needs.
type Services struct {
	Store  *storage.Store
	Users  *users.Service
	Social *social.Service
	Notify *notify.Service
	Posts  *posts.Service
	Chat   *chat.Service
}

// RegisterRoutes wires every REST endpoint. Paths are part of the wire
// contract; both registration endpoints stay routed even though they share
// one service operation.
func RegisterRoutes(app *fiber.App, svc Services) {
	api := app.Group("/api")

	// Users & auth
	api.Post("/register-user", handlers.HandleRegisterUser(svc.Users))
	api.Post("/login", handlers.HandleLogin(svc.Users))
	api.Get("/users", handlers.HandleListUsers(svc.Users))
	api.Get("/users/:userId", handlers.HandleGetUser(svc.Users))
	api.Put("/users/:userId", handlers.HandleUpdateUser(svc.Users))

	// Follow graph
	api.Post("/toggle-follow", handlers.HandleToggleFollow(svc.Social))
	api.Get("/follows", handlers.HandleFollows(svc.Social))
	api.Get("/users/:userId/follow-list", handlers.HandleFollowList(svc.Social))

	// Notifications
	api.Get("/notifications", handlers.HandleListNotifications(svc.Notify))
	api.Post("/notifications/mark-read", handlers.HandleMarkNotificationsRead(svc.Notify))

	// Study posts & registrations
	api.Get("/study-posts", handlers.HandleListPosts(svc.Posts))
	api.Post("/study-posts", handlers.HandleCreatePost(svc.Posts))
	api.Delete("/study-posts/:id", handlers.HandleDeletePost(svc.Posts))
	api.Post("/registrations", handlers.HandleCreateRegistration(svc.Posts))
	api.Get("/registrations", handlers.HandleListRegistrations(svc.Posts))
	api.Delete("/cancel-registration", handlers.HandleCancelRegistration(svc.Posts))
	api.Post("/register-course", handlers.HandleRegisterCourse(svc.Posts))
	api.Get("/users/:userId/courses", handlers.HandleUserCourses(svc.Posts))

	// Global chat
	api.Get("/chat", handlers.HandleGlobalChat(svc.Chat))
	api.Post("/chat", handlers.HandlePostGlobalChat(svc.Chat))

	// Private chat
	api.Post("/private-chat", handlers.HandleSendPrivateMessage(svc.Chat))
	api.Get("/private-chat/:userId/:partnerId", handlers.HandleConversation(svc.Chat))
	api.Get("/chat-inbox/:userId", handlers.HandleInbox(svc.Chat))

	// Operational
	app.Get("/healthz", handlers.HandleHealthCheck(svc.Store))
	api.Get("/v1/status", handlers.HandleStatus())
}
