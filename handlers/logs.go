package handlers

import (
	"strconv"

	"indoor-nav-backend/services"

	"github.com/gofiber/fiber/v2"
)

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

// HandleGetRecentLogs - 최근 로그 조회 (?session_id=&limit=)
func HandleGetRecentLogs(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")

	logs, err := services.GetRecentLogs(sessionID, queryLimit(c))
	if err != nil {
		return errorResponse(c, statusFor(err), "Failed to fetch logs")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회
func HandleGetLogsByEventType(c *fiber.Ctx) error {
	eventType := c.Query("event_type")
	if eventType == "" {
		return errorResponse(c, fiber.StatusBadRequest, "event_type parameter is required")
	}

	logs, err := services.GetLogsByEventType(eventType, queryLimit(c))
	if err != nil {
		return errorResponse(c, statusFor(err), "Failed to fetch logs")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - 로그 통계 조회
func HandleGetLogStats(c *fiber.Ctx) error {
	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := services.GetLogStats(hours)
	if err != nil {
		return errorResponse(c, statusFor(err), "Failed to fetch stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
