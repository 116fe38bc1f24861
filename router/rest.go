package router

import (
	"sportlink-service/controller"
	"sportlink-service/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Controllers bundles the constructed handlers Rest wires up.
type Controllers struct {
	Auth         *controller.AuthController
	User         *controller.UserController
	Friend       *controller.FriendController
	Messenger    *controller.MessengerController
	Notification *controller.NotificationController
	Admin        *controller.AdminController
}

func Rest(app *fiber.App, c Controllers, enforcer *casbin.Enforcer) {
	api := app.Group("/v1", logger.New())

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", c.Auth.Signup)
	auth.Post("/signin", c.Auth.Signin)
	auth.Post("/token/renew", c.Auth.TokenRenew)
	auth.Post("/2fa/secret", middleware.JWT(), middleware.OTP(), c.Auth.OtpSecret)
	auth.Post("/2fa/verify", middleware.JWT(), middleware.OTP(), c.Auth.OtpVerify)
	auth.Post("/2fa/validate", middleware.JWT(), c.Auth.OtpValidate)
	auth.Post("/2fa/disable", middleware.JWT(), middleware.OTP(), c.Auth.OtpDisable)

	// User & follow graph
	user := api.Group("/user", middleware.JWT(), middleware.OTP())
	user.Get("/profile", c.User.Profile)
	user.Put("/profile", c.User.UpdateProfile)

	users := api.Group("/users", middleware.JWT(), middleware.OTP())
	users.Get("/:username", c.User.PublicProfile)
	users.Post("/:username/follow", c.User.Follow)
	users.Delete("/:username/follow", c.User.Unfollow)

	// Friends
	friends := api.Group("/friends", middleware.JWT(), middleware.OTP())
	friends.Get("/", c.Friend.List)
	friends.Post("/request", c.Friend.Request)
	friends.Patch("/request/:id", c.Friend.Respond)

	// Messenger
	messenger := api.Group("/messenger")
	messenger.Get("/image/:id", c.Messenger.Image)

	messages := api.Group("/messages", middleware.JWT(), middleware.OTP())
	messages.Post("/send", c.Messenger.Send)
	messages.Post("/groups", c.Messenger.CreateGroup)
	messages.Get("/conversations", c.Messenger.Conversations)
	messages.Post("/conversations/:id", c.Messenger.SendToConversation)
	messages.Get("/conversations/:id/messages", c.Messenger.Messages)
	messages.Delete("/:id", c.Messenger.DeleteMessage)

	// Notifications
	notifications := api.Group("/notifications", middleware.JWT(), middleware.OTP())
	notifications.Get("/", c.Notification.List)
	notifications.Get("/unread", c.Notification.Unread)
	notifications.Post("/read", c.Notification.MarkRead)

	// Admin moderation
	admin := api.Group("/admin", middleware.JWT(), middleware.OTP(), middleware.RBAC(enforcer))
	admin.Get("/users", c.Admin.Users)
	admin.Post("/users/:id/ban", c.Admin.Ban)
	admin.Delete("/users/:id/ban", c.Admin.Unban)
	admin.Delete("/messages/:id", c.Admin.DeleteMessage)
}
