package handlers

import (
	"os"
	"path/filepath"
	"time"

	"studygroup/storage"

	"github.com/gofiber/fiber/v2"
)

var startTime = time.Now()

// CheckStatus represents individual component status
type CheckStatus struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Latency     float64 `json:"latency_ms,omitempty"`
	LastChecked string  `json:"last_checked"`
}

// HandleHealthCheck reports liveness plus a data-directory writability check.
func HandleHealthCheck(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := map[string]CheckStatus{
			"server": {
				Status:      "up",
				Message:     "Server is running",
				LastChecked: time.Now().Format(time.RFC3339),
			},
			"storage": checkStorage(store),
		}

		status := "healthy"
		code := fiber.StatusOK
		if checks["storage"].Status != "healthy" {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":         status,
			"timestamp":      time.Now().Format(time.RFC3339),
			"uptime_seconds": time.Since(startTime).Seconds(),
			"checks":         checks,
		})
	}
}

// HandleStatus is the versioned API status endpoint.
func HandleStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "operational",
			"version": "1.0.0",
			"service": "StudyGroup API",
		})
	}
}

func checkStorage(store *storage.Store) CheckStatus {
	start := time.Now()

	probe := filepath.Join(store.Dir(), ".healthcheck")
	err := os.WriteFile(probe, []byte("ok"), 0644)
	if err == nil {
		err = os.Remove(probe)
	}

	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		return CheckStatus{
			Status:      "unhealthy",
			Message:     "Data directory is not writable: " + err.Error(),
			Latency:     latency,
			LastChecked: time.Now().Format(time.RFC3339),
		}
	}

	return CheckStatus{
		Status:      "healthy",
		Message:     "Data directory is writable",
		Latency:     latency,
		LastChecked: time.Now().Format(time.RFC3339),
	}
}
