// handlers/notification_routes.go
package handlers

import (
	"errors"
	"strconv"

	"eco-garden-system/middleware"
	"eco-garden-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupNotificationRoutes(app *fiber.App, notificationService *services.NotificationService, authClient *services.AuthServiceClient) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/notifications", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		unreadOnly := c.Query("unread") == "true"
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		notifications, err := notificationService.GetNotifications(userID, unreadOnly, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(notifications)
	})

	secured.Post("/user/notifications/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		id := c.Params("id")

		if err := notificationService.MarkRead(userID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notification read",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "ok"})
	})

	// EventSource cannot set headers, so the stream authenticates via query
	// token against the auth service instead of the gateway user context.
	app.Get("/user/notifications/stream",
		middleware.SSEAuthMiddleware(authClient),
		notificationService.StreamUserNotificationsSSE,
	)
}
