// Package api exposes the assistant over HTTP. Every route except
// /metrics requires the admin password, passed either as a query
// parameter or as a "password" field in the JSON body.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"jaws/app/client/weather"
	"jaws/app/config"
	"jaws/app/observability"
	"jaws/app/service/assistant"
	"jaws/app/service/datastore"
	"jaws/app/service/suggest"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	cfg          *config.Config
	assistantSvc *assistant.Service
	suggestSvc   *suggest.Service
	store        *datastore.Service
	weatherCli   *weather.Client

	app *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:          do.MustInvoke[*config.Config](di),
		assistantSvc: do.MustInvoke[*assistant.Service](di),
		suggestSvc:   do.MustInvoke[*suggest.Service](di),
		store:        do.MustInvoke[*datastore.Service](di),
		weatherCli:   do.MustInvoke[*weather.Client](di),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           time.Minute,
	})

	app.Get("/metrics", adaptor.HTTPHandler(observability.Handler()))

	app.Use(s.auth)

	app.Post("/ask", s.handleAsk)

	app.Post("/schedule", s.handleAddSchedule)
	app.Get("/schedule/upcoming", s.handleUpcomingSchedule)
	app.Get("/schedule/:date", s.handleScheduleForDate)
	app.Delete("/schedule/:id", s.handleDeleteSchedule)
	app.Post("/schedule/:id/complete", s.handleCompleteSchedule)

	app.Post("/fitness/workout", s.handleAddWorkout)
	app.Delete("/fitness/workout/:id", s.handleDeleteWorkout)
	app.Get("/fitness/workouts", s.handleRecentWorkouts)
	app.Get("/fitness/progress/:exercise", s.handleFitnessProgress)
	app.Get("/fitness/advice", s.handleFitnessAdvice)

	app.Post("/nutrition/goals", s.handleNutritionGoals)
	app.Post("/nutrition/log", s.handleNutritionLog)
	app.Post("/nutrition/weight", s.handleLogWeight)
	app.Get("/nutrition/summary", s.handleNutritionSummary)
	app.Get("/nutrition/weight-history", s.handleWeightHistory)
	app.Post("/nutrition/reset", s.handleResetNutrition)

	app.Post("/movies/preference", s.handleAddMoviePreference)
	app.Get("/movies/recommendations", s.handleMovieRecommendations)

	app.Get("/weather/current", s.handleCurrentWeather)
	app.Get("/weather/forecast", s.handleWeatherForecast)

	app.Get("/ai/suggestions", s.handleSuggestions)

	s.app = app

	return s, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("API server listening", "addr", s.cfg.Server.Addr)
		return s.app.Listen(s.cfg.Server.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Warn("Server shutdown failed", "error", err)
		}

		return ctx.Err()
	})

	return g.Wait()
}

func (s *Server) auth(c *fiber.Ctx) error {
	password := c.Query("password")

	if password == "" && len(c.Body()) > 0 {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			password = body.Password
		}
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Server.Password)) != 1 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.Next()
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
