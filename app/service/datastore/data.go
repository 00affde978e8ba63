package datastore

// The document layout mirrors the legacy user_data.json file, so an existing
// store can be opened in place. Field names and nesting must not change.

type document struct {
	User             User              `json:"user"`
	Conversations    []Conversation    `json:"conversations"`
	Schedule         []ScheduleItem    `json:"schedule"`
	Fitness          Fitness           `json:"fitness"`
	MoviePreferences []MoviePreference `json:"movie_preferences"`
	LongTermMemory   LongTermMemory    `json:"long_term_memory"`
	Counters         Counters          `json:"counters"`
}

type User struct {
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences"`
}

type Conversation struct {
	Timestamp string   `json:"timestamp"`
	Query     string   `json:"query"`
	Response  string   `json:"response"`
	KeyPoints []string `json:"key_points"`
}

type ScheduleItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type Fitness struct {
	Workouts         []Workout                   `json:"workouts"`
	Goals            map[string]any              `json:"goals"`
	Nutrition        Nutrition                   `json:"nutrition"`
	NutritionHistory map[string]NutritionArchive `json:"nutrition_history,omitempty"`
}

type Workout struct {
	ID       int     `json:"id"`
	Date     string  `json:"date"`
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
}

type Nutrition struct {
	Goals      NutritionGoals `json:"goals"`
	Logs       []NutritionLog `json:"logs"`
	WeightLogs []WeightLog    `json:"weight_logs"`
}

type NutritionGoals struct {
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
	GoalType string `json:"goal_type"`
}

type NutritionLog struct {
	ID        int     `json:"id"`
	Timestamp string  `json:"timestamp"`
	FoodName  string  `json:"food_name"`
	Calories  int     `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
}

// NutritionArchive is one archived day of food logs with its summary,
// written by the daily nutrition reset.
type NutritionArchive struct {
	Logs    []NutritionLog   `json:"logs"`
	Summary NutritionSummary `json:"summary"`
}

type WeightLog struct {
	ID     int     `json:"id"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type MoviePreference struct {
	Timestamp string `json:"timestamp"`
	Genre     string `json:"genre"`
	Title     string `json:"title,omitempty"`
	Rating    int    `json:"rating,omitempty"`
}

type LongTermMemory struct {
	KeyPoints []string `json:"key_points"`
}

// Counters hold the next-id state for every id-bearing collection. The
// legacy store derived ids from collection length, which collides after
// deletions; counters only ever grow. Absent counters are seeded from the
// highest existing id on load.
type Counters struct {
	Schedule      int `json:"schedule"`
	Workouts      int `json:"workouts"`
	NutritionLogs int `json:"nutrition_logs"`
	WeightLogs    int `json:"weight_logs"`
}

// NutritionSummary aggregates one day of food logs against the goals.
type NutritionSummary struct {
	Date              string         `json:"date"`
	TotalCalories     int            `json:"total_calories"`
	TotalProtein      float64        `json:"total_protein"`
	TotalCarbs        float64        `json:"total_carbs"`
	TotalFats         float64        `json:"total_fats"`
	RemainingCalories int            `json:"remaining_calories"`
	RemainingProtein  float64        `json:"remaining_protein"`
	GoalType          string         `json:"goal_type"`
	Logs              []NutritionLog `json:"logs"`
}

// FitnessProgress compares the first and latest entry of one exercise.
type FitnessProgress struct {
	Status              string  `json:"status"`
	Message             string  `json:"message,omitempty"`
	Exercise            string  `json:"exercise,omitempty"`
	FirstDate           string  `json:"first_date,omitempty"`
	LatestDate          string  `json:"latest_date,omitempty"`
	WeightChange        float64 `json:"weight_change"`
	WeightChangePercent float64 `json:"weight_change_percent"`
	RepsChange          int     `json:"reps_change"`
	RepsChangePercent   float64 `json:"reps_change_percent"`
	VolumeChangePercent float64 `json:"volume_change_percent"`
	OnTrack             bool    `json:"on_track"`
}

func defaultDocument() *document {
	return &document{
		User: User{
			Name:        "Rowan",
			Preferences: map[string]any{},
		},
		Conversations: []Conversation{},
		Schedule:      []ScheduleItem{},
		Fitness: Fitness{
			Workouts: []Workout{},
			Goals:    map[string]any{},
			Nutrition: Nutrition{
				Logs:       []NutritionLog{},
				WeightLogs: []WeightLog{},
			},
		},
		MoviePreferences: []MoviePreference{},
		LongTermMemory:   LongTermMemory{KeyPoints: []string{}},
	}
}
