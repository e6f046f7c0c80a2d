// handlers/social_routes.go
package handlers

import (
	"errors"
	"strconv"

	"eco-garden-system/middleware"
	"eco-garden-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, socialService *services.SocialService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		entries, err := socialService.GetLeaderboard(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	secured.Get("/users/search", func(c *fiber.Ctx) error {
		query := c.Query("q", "")
		if query == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		users, err := socialService.SearchUsers(query, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "search failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(users)
	})

	secured.Get("/user/friends", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		friends, err := socialService.GetFriends(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load friends",
				"cause": err.Error(),
			})
		}
		return c.JSON(friends)
	})

	secured.Post("/user/friends", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			FriendID string `json:"friend_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.FriendID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "friend_id is required"})
		}

		friendship, err := socialService.SendFriendRequest(userID, req.FriendID)
		if err != nil {
			if errors.Is(err, services.ErrSelfFriendship) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to send friend request",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(friendship)
	})

	secured.Post("/user/friends/:id/accept", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		friendshipID := c.Params("id")

		friendship, err := socialService.AcceptFriendRequest(userID, friendshipID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrFriendshipNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrNotRequestRecipient):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to accept friend request",
					"cause": err.Error(),
				})
			}
		}
		return c.JSON(friendship)
	})
}
