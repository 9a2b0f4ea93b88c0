package noticeValidator

import (
	"strings"

	"krpic_backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// Notice validates a notice create/update payload
func Notice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Content     string `json:"content"`
			IsPinned    bool   `json:"is_pinned"`
			IsPublished *bool  `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Title) > 200 {
			errors["title"] = "Title must be at most 200 characters!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNotice", reqData)
		return c.Next()
	}
}
