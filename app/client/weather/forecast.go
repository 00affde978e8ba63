package weather

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"time"
)

// The forecast endpoint returns 3-hour steps, 8 per day, capped at 40.
const maxForecastSteps = 40

// Forecast is the shaped multi-day forecast, one summary per calendar
// day in chronological order.
type Forecast struct {
	Location Location      `json:"location"`
	Days     []ForecastDay `json:"forecast"`
}

type ForecastDay struct {
	Date                string             `json:"date"`
	DayName             string             `json:"day_name"`
	Temperature         TemperatureRange   `json:"temperature"`
	Weather             ForecastConditions `json:"weather"`
	PrecipitationChance int                `json:"precipitation_probability"`
}

type TemperatureRange struct {
	Avg int `json:"avg"`
	Min int `json:"min"`
	Max int `json:"max"`
}

type ForecastConditions struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type forecastPayload struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

type dayAccumulator struct {
	dayName      string
	temperatures []float64
	descriptions []string
	icons        []string
	pops         []float64
}

// ForecastWeather fetches the forecast for a city and collapses the
// 3-hour steps into per-day summaries: rounded avg/min/max temperature,
// the most frequent conditions, and the peak precipitation probability
// as a percentage.
func (c *Client) ForecastWeather(ctx context.Context, city string, days int, units string) (*Forecast, error) {
	if days <= 0 {
		days = 5
	}
	if units == "" {
		units = c.units
	}

	steps := days * 8
	if steps > maxForecastSteps {
		steps = maxForecastSteps
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", units)
	query.Set("cnt", strconv.Itoa(steps))

	var payload forecastPayload
	if err := c.fetch(ctx, "/forecast", query, &payload); err != nil {
		return nil, err
	}

	var order []string
	accumulators := map[string]*dayAccumulator{}

	for _, step := range payload.List {
		if len(step.Weather) == 0 {
			continue
		}

		at := time.Unix(step.Dt, 0)
		date := at.Format("2006-01-02")

		accum, ok := accumulators[date]
		if !ok {
			accum = &dayAccumulator{dayName: at.Format("Monday")}
			accumulators[date] = accum
			order = append(order, date)
		}

		accum.temperatures = append(accum.temperatures, step.Main.Temp)
		accum.descriptions = append(accum.descriptions, step.Weather[0].Description)
		accum.icons = append(accum.icons, step.Weather[0].Icon)
		accum.pops = append(accum.pops, step.Pop*100)
	}

	forecast := &Forecast{
		Location: Location{
			City:    payload.City.Name,
			Country: payload.City.Country,
		},
		Days: make([]ForecastDay, 0, len(order)),
	}

	for _, date := range order {
		accum := accumulators[date]

		var sum float64
		min, max := accum.temperatures[0], accum.temperatures[0]
		for _, temp := range accum.temperatures {
			sum += temp
			if temp < min {
				min = temp
			}
			if temp > max {
				max = temp
			}
		}

		var peakPop float64
		for _, pop := range accum.pops {
			if pop > peakPop {
				peakPop = pop
			}
		}

		forecast.Days = append(forecast.Days, ForecastDay{
			Date:    date,
			DayName: accum.dayName,
			Temperature: TemperatureRange{
				Avg: roundInt(sum / float64(len(accum.temperatures))),
				Min: roundInt(min),
				Max: roundInt(max),
			},
			Weather: ForecastConditions{
				Description: mostCommon(accum.descriptions),
				Icon:        mostCommon(accum.icons),
			},
			PrecipitationChance: int(math.Round(peakPop)),
		})
	}

	return forecast, nil
}

// mostCommon returns the most frequent value, first-seen winning ties.
func mostCommon(values []string) string {
	counts := make(map[string]int, len(values))

	best := ""
	for _, value := range values {
		counts[value]++
		if best == "" || counts[value] > counts[best] {
			best = value
		}
	}

	return best
}
