// Package httpapi is the host boundary: it parses queries, calls the resolver
// and maps the typed error taxonomy onto HTTP statuses. No resolution logic
// lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/normalize"
	"github.com/geofacts/geofacts/internal/provider"
	"github.com/geofacts/geofacts/internal/resolve"
	"github.com/geofacts/geofacts/internal/taxonomy"
	"github.com/geofacts/geofacts/internal/units"
)

var validate = validator.New()

// Config carries the host settings the handlers need.
type Config struct {
	Units        units.System
	AddressTTL   time.Duration
	WeatherTTL   time.Duration
	ElevationTTL time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. terms may be nil
// when place classification is disabled.
func RegisterRoutes(app *fiber.App, resolver *resolve.Resolver, terms *taxonomy.Resolver, cfg Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/resolve/address", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := resolver.ResolveAddress(c.Context(), coord, resolve.Options{
			Provider: c.Query("provider"),
			CacheTTL: cfg.AddressTTL,
		})
		if err != nil {
			return mapError(err, "failed to resolve address")
		}

		resp := fiber.Map{"address": rec}
		if terms != nil {
			if id, terr := terms.GetOrCreate(c.Context(), rec); terr == nil {
				typ, _ := terms.LocationType(c.Context(), id)
				resp["place"] = fiber.Map{"term": id, "type": typ}
			} else {
				log.Printf("classify %s: %v", coord.Key(), terr)
			}
		}
		return c.JSON(resp)
	})

	v1.Get("/resolve/weather", func(c *fiber.Ctx) error {
		opts := resolve.Options{
			Provider: c.Query("provider"),
			CacheTTL: cfg.WeatherTTL,
		}

		var rec normalize.ConditionsRecord
		var err error
		if station := c.Query("station"); station != "" {
			rec, err = resolver.ResolveStationConditions(c.Context(), station, opts)
		} else {
			var coord geo.Coordinate
			coord, err = parseCoordinateQuery(c)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			rec, err = resolver.ResolveConditions(c.Context(), coord, opts)
		}
		if err != nil {
			return mapError(err, "failed to resolve weather")
		}

		sys, err := displayUnits(c, cfg.Units)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(rec.ForDisplay(sys))
	})

	v1.Get("/resolve/elevation", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		elevation, err := resolver.ResolveElevation(c.Context(), coord, resolve.Options{
			Provider: c.Query("provider"),
			CacheTTL: cfg.ElevationTTL,
		})
		if err != nil {
			return mapError(err, "failed to resolve elevation")
		}
		return c.JSON(fiber.Map{"elevation": elevation})
	})

	v1.Get("/resolve/timezone", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		tz, err := resolver.ResolveTimezone(c.Context(), coord, resolve.Options{
			Provider: c.Query("provider"),
			CacheTTL: cfg.WeatherTTL,
		})
		if err != nil {
			return mapError(err, "failed to resolve timezone")
		}
		return c.JSON(fiber.Map{"timezone": tz})
	})

	v1.Get("/resolve/position", func(c *fiber.Ctx) error {
		subject := c.Query("subject")
		if subject == "" {
			return fiber.NewError(fiber.StatusBadRequest, "subject query parameter is required")
		}

		coord, err := resolver.LastPosition(c.Context(), subject, resolve.Options{
			Provider: c.Query("provider"),
		})
		if err != nil {
			return mapError(err, "failed to resolve position")
		}
		return c.JSON(coord)
	})

	v1.Get("/map/static", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		url, err := resolver.MapURL(coord, provider.MapOptions{
			Zoom:   c.QueryInt("zoom"),
			Width:  c.QueryInt("width"),
			Height: c.QueryInt("height"),
		}, resolve.Options{Provider: c.Query("provider")})
		if err != nil {
			return mapError(err, "failed to build map url")
		}
		return c.JSON(fiber.Map{"url": url})
	})

	v1.Post("/geo/simplify", func(c *fiber.Ctx) error {
		var req simplifyRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		points := make([]geo.Point, len(req.Points))
		for i, p := range req.Points {
			points[i] = geo.Point{Lat: p.Latitude, Lon: p.Longitude}
		}

		var out []geo.Point
		switch req.Algorithm {
		case "vw":
			out = geo.SimplifyVW(points, req.Target)
		default:
			out = geo.SimplifyRDP(points, req.Tolerance)
		}

		resp := make([]simplifyPoint, len(out))
		for i, p := range out {
			resp[i] = simplifyPoint{Latitude: p.Lat, Longitude: p.Lon}
		}
		return c.JSON(fiber.Map{"points": resp})
	})
}

// coordinateQuery holds the query parameters identifying a coordinate.
type coordinateQuery struct {
	Latitude  string `validate:"required"`
	Longitude string `validate:"required"`
}

func parseCoordinateQuery(c *fiber.Ctx) (geo.Coordinate, error) {
	q := coordinateQuery{
		Latitude:  c.Query("latitude", c.Query("lat")),
		Longitude: c.Query("longitude", c.Query("lon")),
	}
	if err := validate.Struct(q); err != nil {
		return geo.Coordinate{}, err
	}
	return geo.ParseCoordinate(q.Latitude, q.Longitude)
}

// displayUnits returns the unit system for a response: the per-request units
// parameter when present, the configured preference otherwise.
func displayUnits(c *fiber.Ctx, def units.System) (units.System, error) {
	switch c.Query("units") {
	case "":
		return def, nil
	case string(units.Metric):
		return units.Metric, nil
	case string(units.Imperial):
		return units.Imperial, nil
	default:
		return def, errors.New("units must be metric or imperial")
	}
}

type simplifyRequest struct {
	Points    []simplifyPoint `json:"points" validate:"required,min=2"`
	Algorithm string          `json:"algorithm" validate:"omitempty,oneof=rdp vw"`
	Tolerance float64         `json:"tolerance" validate:"gte=0"`
	Target    int             `json:"target" validate:"gte=0"`
}

type simplifyPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// mapError converts the resolver's error taxonomy into fiber errors; fallback
// is the message for unclassified failures.
func mapError(err error, fallback string) error {
	switch {
	case errors.Is(err, provider.ErrValidation), errors.Is(err, geo.ErrInvalidCoordinate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, provider.ErrNoProvider):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, provider.ErrCapability):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	var httpErr *provider.HTTPError
	var transportErr *provider.TransportError
	if errors.As(err, &httpErr) || errors.As(err, &transportErr) {
		return fiber.NewError(fiber.StatusBadGateway, fallback)
	}
	log.Printf("%s: %v", fallback, err)
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}
