package api

import (
	"errors"
	"time"

	"jaws/app/client/weather"
	"jaws/app/service/datastore"
	"jaws/app/service/gateway"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No query provided"})
	}

	result, err := s.assistantSvc.Ask(c.UserContext(), req.Query, time.Now())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, gateway.ErrGenerationFailed) {
			status = fiber.StatusBadGateway
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

func (s *Server) handleAddSchedule(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	item, err := s.store.AddScheduleItem(req.Title, req.Date, req.Time, req.Description)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "item": item})
}

func (s *Server) handleUpcomingSchedule(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	return c.JSON(fiber.Map{"schedule": s.store.UpcomingSchedule(days)})
}

func (s *Server) handleScheduleForDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	return c.JSON(fiber.Map{
		"date":     date,
		"schedule": s.store.ScheduleForDate(date),
	})
}

func (s *Server) handleDeleteSchedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err = s.store.DeleteScheduleItem(id); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleCompleteSchedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	req := struct {
		Completed *bool `json:"completed"`
	}{}
	_ = c.BodyParser(&req)

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	if err = s.store.MarkScheduleCompleted(id, completed); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleAddWorkout(c *fiber.Ctx) error {
	var req struct {
		Exercise string  `json:"exercise"`
		Reps     int     `json:"reps"`
		Weight   float64 `json:"weight"`
		Date     string  `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil || req.Exercise == "" || req.Reps <= 0 || req.Weight <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	workout, err := s.store.AddWorkout(req.Exercise, req.Reps, req.Weight, req.Date)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "workout": workout})
}

func (s *Server) handleDeleteWorkout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err = s.store.DeleteWorkout(id); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workout not found"})
		}
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleRecentWorkouts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	return c.JSON(fiber.Map{"workouts": s.store.RecentWorkouts(limit)})
}

func (s *Server) handleFitnessProgress(c *fiber.Ctx) error {
	return c.JSON(s.store.CalculateFitnessProgress(c.Params("exercise")))
}

func (s *Server) handleNutritionGoals(c *fiber.Ctx) error {
	var req struct {
		Calories int    `json:"calories"`
		Protein  int    `json:"protein"`
		Carbs    int    `json:"carbs"`
		Fats     int    `json:"fats"`
		GoalType string `json:"goal_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	goals := datastore.NutritionGoals{
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		GoalType: req.GoalType,
	}

	if err := s.store.SetNutritionGoals(goals); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "goals": goals})
}

func (s *Server) handleNutritionLog(c *fiber.Ctx) error {
	var req struct {
		FoodName string  `json:"food_name"`
		Calories int     `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fats     float64 `json:"fats"`
	}
	if err := c.BodyParser(&req); err != nil || req.FoodName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	entry, err := s.store.LogFood(req.FoodName, req.Calories, req.Protein, req.Carbs, req.Fats)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "log": entry})
}

func (s *Server) handleLogWeight(c *fiber.Ctx) error {
	var req struct {
		Weight float64 `json:"weight"`
		Date   string  `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil || req.Weight <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	entry, err := s.store.LogWeight(req.Weight, req.Date)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "log": entry})
}

func (s *Server) handleNutritionSummary(c *fiber.Ctx) error {
	return c.JSON(s.store.NutritionSummary(c.Query("date")))
}

func (s *Server) handleWeightHistory(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	return c.JSON(fiber.Map{"history": s.store.WeightHistory(days)})
}

func (s *Server) handleAddMoviePreference(c *fiber.Ctx) error {
	var req struct {
		Genre  string `json:"genre"`
		Title  string `json:"title"`
		Rating int    `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil || req.Genre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	if err := s.store.AddMoviePreference(req.Genre, req.Title, req.Rating); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleMovieRecommendations(c *fiber.Ctx) error {
	genres, recommendations, err := s.suggestSvc.MovieRecommendations(c.UserContext())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, gateway.ErrGenerationFailed) {
			status = fiber.StatusBadGateway
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"preferred_genres": genres,
		"recommendations":  recommendations,
	})
}

func (s *Server) handleFitnessAdvice(c *fiber.Ctx) error {
	advice, err := s.suggestSvc.FitnessAdvice(c.UserContext())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, gateway.ErrGenerationFailed) {
			status = fiber.StatusBadGateway
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(advice)
}

func (s *Server) handleResetNutrition(c *fiber.Ctx) error {
	if err := s.store.ResetDailyNutrition(); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleCurrentWeather(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No city provided"})
	}

	current, err := s.weatherCli.CurrentWeather(c.UserContext(), city, c.Query("units"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, weather.ErrCityNotFound) {
			status = fiber.StatusNotFound
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(current)
}

func (s *Server) handleWeatherForecast(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No city provided"})
	}

	days := c.QueryInt("days", 5)

	forecast, err := s.weatherCli.ForecastWeather(c.UserContext(), city, days, c.Query("units"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, weather.ErrCityNotFound) {
			status = fiber.StatusNotFound
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(forecast)
}

func (s *Server) handleSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.suggestSvc.Suggestions(c.UserContext())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, gateway.ErrGenerationFailed) {
			status = fiber.StatusBadGateway
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}
