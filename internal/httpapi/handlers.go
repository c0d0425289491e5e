package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/scadatwin/telemetry-engine/internal/repository"
	"github.com/scadatwin/telemetry-engine/internal/service"
)

// Register mounts the sensor data read API. Handlers stay thin: parameter
// parsing here, validation and store access in the service layer.
func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/api/sensordata")

	g.Get("/latest", func(c *fiber.Ctx) error {
		readings, err := svcs.LatestReadings(c.UserContext(), c.QueryInt("count", 100), c.Query("assetId"))
		if err != nil {
			return fail(c, err, "retrieve latest readings")
		}
		return c.JSON(readings)
	})

	g.Get("/range", func(c *fiber.Ctx) error {
		start, err := parseTime(c.Query("start"))
		if err != nil {
			return badRequest(c, "invalid start: use RFC3339 timestamps")
		}
		end, err := parseTime(c.Query("end"))
		if err != nil {
			return badRequest(c, "invalid end: use RFC3339 timestamps")
		}
		result, err := svcs.ReadingsInRange(c.UserContext(), start, end, c.Query("assetId"))
		if err != nil {
			return fail(c, err, "retrieve range data")
		}
		return c.JSON(result)
	})

	g.Get("/last-minutes", func(c *fiber.Ctx) error {
		result, err := svcs.ReadingsLastMinutes(c.UserContext(), c.QueryInt("minutes", 5), c.Query("assetId"))
		if err != nil {
			return fail(c, err, "retrieve trailing window")
		}
		return c.JSON(result)
	})

	g.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := svcs.Statistics(c.UserContext(), c.QueryInt("minutes", 5))
		if err != nil {
			return fail(c, err, "calculate statistics")
		}
		if stats.NoData {
			return c.JSON(fiber.Map{"message": "No data available"})
		}
		return c.JSON(stats)
	})

	g.Get("/aggregated", func(c *fiber.Ctx) error {
		series, err := svcs.Aggregate(c.UserContext(), c.Query("interval", "minute"), c.QueryInt("minutes", 60))
		if err != nil {
			return fail(c, err, "aggregate data")
		}
		if series.NoData {
			return c.JSON(fiber.Map{"message": "No data available for aggregation"})
		}
		return c.JSON(series)
	})

	g.Get("/health", func(c *fiber.Ctx) error {
		report, err := svcs.Health(c.UserContext())
		if err != nil {
			return fail(c, err, "check system health")
		}
		return c.JSON(report)
	})

	g.Get("/alerts", func(c *fiber.Ctx) error {
		result, err := svcs.Alerts(c.UserContext(), c.QueryInt("hours", 24))
		if err != nil {
			return fail(c, err, "retrieve alerts")
		}
		return c.JSON(result)
	})

	g.Get("/assets", func(c *fiber.Ctx) error {
		assets, err := svcs.AssetSummaries(c.UserContext())
		if err != nil {
			return fail(c, err, "retrieve assets")
		}
		return c.JSON(fiber.Map{"assetCount": len(assets), "assets": assets})
	})

	g.Get("/info", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"apiVersion":  "1.0",
			"projectName": "Telemetry Ingestion & Analytics Engine",
			"description": "Real-time industrial asset monitoring API",
		})
	})

	// Registered last so the named routes above win.
	g.Get("/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return badRequest(c, "id must be an integer")
		}
		reading, err := svcs.ReadingByID(c.UserContext(), id)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Reading with ID " + c.Params("id") + " not found",
			})
		}
		if err != nil {
			return fail(c, err, "retrieve reading")
		}
		return c.JSON(reading)
	})
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339, s)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// fail maps service errors onto HTTP: validation errors carry their message
// back to the caller, anything else logs server-side and returns a generic
// body.
func fail(c *fiber.Ctx, err error, op string) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return badRequest(c, verr.Error())
	}
	log.Error().Err(err).Str("op", op).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
