package gateway

import "fitclub/planner/internal/domain"

// WorkoutSave is the body of POST /save-workout-plan.
type WorkoutSave struct {
	ClientID    string                `json:"clientId" validate:"required"`
	Notes       string                `json:"notes"`
	CurrentWeek domain.WeeklySchedule `json:"currentWeek"`
}

// NutritionSave is the body of POST /edit_nutritional_plan.
type NutritionSave struct {
	UserID      string             `json:"userId" validate:"required"`
	ProteinGoal float64            `json:"proteinGoal" validate:"gte=0"`
	CalorieGoal float64            `json:"calorieGoal" validate:"gte=0"`
	Foods       []domain.FoodEntry `json:"foods"`
	Day         domain.DayKey      `json:"day" validate:"required,daykey"`
}

// ClientSummary is one row of the trainer's roster.
type ClientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Workout is a client's saved week together with its notes.
type Workout struct {
	Schedule domain.WeeklySchedule
	Notes    string
}

type workoutResponse struct {
	WeeklySchedule domain.WeeklySchedule `json:"weeklySchedule"`
	Notes          domain.Text           `json:"notes"`
}

type nutritionBody struct {
	ProteinGoal domain.Macro       `json:"protein_goal"`
	CalorieGoal domain.Macro       `json:"calorie_goal"`
	Foods       []domain.FoodEntry `json:"foods"`
	Day         string             `json:"day"`
}

type nutritionResponse struct {
	Nutrition *nutritionBody `json:"nutrition"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}
