// handlers/garden_routes.go
package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"eco-garden-system/middleware"
	"eco-garden-system/models"
	"eco-garden-system/services"
	"eco-garden-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupGardenRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/catalog/choices", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"good": models.GoodChoices,
			"bad":  models.BadChoices,
		})
	})
	app.Get("/catalog/stages", func(c *fiber.Ctx) error {
		return c.JSON(models.PlantStages)
	})

	// 🔐 Secured routes — require user context forwarded by the gateway
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/user/choices", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ChoiceID string `json:"choice_id"`
			IsGood   bool   `json:"is_good"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.ChoiceID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "choice_id is required"})
		}

		result, err := progressionService.MakeChoice(userID, req.ChoiceID, req.IsGood)
		if err != nil {
			if errors.Is(err, services.ErrUnknownChoice) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "unknown choice",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "choice failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		profile, err := progressionService.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(profile)
	})

	secured.Get("/user/actions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		actions, err := progressionService.Data.GetActions(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load actions",
				"cause": err.Error(),
			})
		}
		return c.JSON(actions)
	})

	secured.Get("/user/stats/daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "7"))
		stats, err := progressionService.Data.GetDailyStats(userID, days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load daily stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Get("/user/stats/categories", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		stats, err := progressionService.Data.GetCategoryStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load category stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		all, err := progressionService.Data.GetAllAchievements()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load achievements",
				"cause": err.Error(),
			})
		}
		earned, err := progressionService.Data.GetUserAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load user achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"catalog": all,
			"earned":  earned,
		})
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		all, err := progressionService.Data.GetAllBadges()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load badges",
				"cause": err.Error(),
			})
		}
		earned, err := progressionService.Data.GetUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load user badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"catalog": all,
			"earned":  earned,
		})
	})

	secured.Get("/user/challenges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := progressionService.Challenges.EnsureUserChallenges(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to initialize challenges",
				"cause": err.Error(),
			})
		}
		ucs, err := progressionService.Data.GetUserChallenges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load challenges",
				"cause": err.Error(),
			})
		}
		return c.JSON(ucs)
	})

	secured.Post("/user/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}

		key := fmt.Sprintf("avatars/%s-%s", userID, uuid.NewString())
		url, err := utils.UploadFileToR2(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "avatar upload failed",
				"cause": err.Error(),
			})
		}

		profile, err := progressionService.Data.UpdateProfile(userID, map[string]interface{}{
			"avatar_url": url,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save avatar",
				"cause": err.Error(),
			})
		}
		return c.JSON(profile)
	})
}
