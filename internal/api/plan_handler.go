package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/service"
	"fitclub/planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type SaveWorkoutRequest struct {
	ClientID    string                `json:"clientId" binding:"required"`
	Notes       string                `json:"notes"`
	CurrentWeek domain.WeeklySchedule `json:"currentWeek"`
}

type SaveNutritionRequest struct {
	UserID      string             `json:"userId" binding:"required"`
	ProteinGoal float64            `json:"proteinGoal" binding:"gte=0"`
	CalorieGoal float64            `json:"calorieGoal" binding:"gte=0"`
	Foods       []domain.FoodEntry `json:"foods"`
	Day         string             `json:"day" binding:"required"`
}

type WorkoutResponse struct {
	WeeklySchedule domain.WeeklySchedule `json:"weeklySchedule"`
	Notes          string                `json:"notes,omitempty"`
}

type NutritionBody struct {
	ProteinGoal float64            `json:"protein_goal"`
	CalorieGoal float64            `json:"calorie_goal"`
	Foods       []domain.FoodEntry `json:"foods"`
	Day         domain.DayKey      `json:"day"`
}

type NutritionResponse struct {
	Nutrition NutritionBody `json:"nutrition"`
}

type SaveResponse struct {
	Success bool `json:"success"`
}

// MapNutritionToResponse converts a stored record to the read shape.
func MapNutritionToResponse(rec *domain.NutritionRecord) NutritionResponse {
	foods := rec.Plan.Foods
	if foods == nil {
		foods = []domain.FoodEntry{}
	}
	return NutritionResponse{Nutrition: NutritionBody{
		ProteinGoal: rec.Plan.ProteinGoal,
		CalorieGoal: rec.Plan.CalorieGoal,
		Foods:       foods,
		Day:         rec.Plan.Day,
	}}
}

// --- Reads ---

// GetClient godoc
// @Summary Profile header of a client
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} domain.ClientProfile
// @Failure 403 {object} gin.H "Client is not on the trainer's roster"
// @Router /client/{clientId} [get]
func (h *PlanHandler) GetClient(c *gin.Context) {
	trainerID, clientID, ok := h.ids(c)
	if !ok {
		return
	}
	profile, err := h.planService.GetClientProfile(c.Request.Context(), trainerID, clientID)
	if err != nil {
		writePlanError(c, err, "Failed to retrieve client.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetWorkout godoc
// @Summary Current week of a client
// @Description All seven days are always present.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} WorkoutResponse
// @Router /workout/{clientId} [get]
func (h *PlanHandler) GetWorkout(c *gin.Context) {
	trainerID, clientID, ok := h.ids(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetWorkout(c.Request.Context(), trainerID, clientID)
	if err != nil {
		writePlanError(c, err, "Failed to retrieve workout plan.")
		return
	}
	c.JSON(http.StatusOK, WorkoutResponse{WeeklySchedule: plan.Schedule, Notes: plan.Notes})
}

// GetNutrition godoc
// @Summary Nutrition plan of a client
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} NutritionResponse
// @Failure 404 {object} gin.H "No nutrition plan saved yet"
// @Router /nutrition/{clientId} [get]
func (h *PlanHandler) GetNutrition(c *gin.Context) {
	trainerID, clientID, ok := h.ids(c)
	if !ok {
		return
	}
	rec, err := h.planService.GetNutrition(c.Request.Context(), trainerID, clientID)
	if err != nil {
		writePlanError(c, err, "Failed to retrieve nutrition plan.")
		return
	}
	c.JSON(http.StatusOK, MapNutritionToResponse(rec))
}

// GetArchive godoc
// @Summary Download links of the newest archived plan snapshots
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} service.ArchiveLinks
// @Failure 404 {object} gin.H "Archive disabled"
// @Router /plans/{clientId}/archive [get]
func (h *PlanHandler) GetArchive(c *gin.Context) {
	trainerID, clientID, ok := h.ids(c)
	if !ok {
		return
	}
	links, err := h.planService.ArchiveLinks(c.Request.Context(), trainerID, clientID)
	if err != nil {
		writePlanError(c, err, "Failed to retrieve plan archive.")
		return
	}
	c.JSON(http.StatusOK, links)
}

// --- Writes ---

// SaveWorkout godoc
// @Summary Replace a client's current week
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body SaveWorkoutRequest true "Full week"
// @Success 200 {object} SaveResponse
// @Router /save-workout-plan [post]
func (h *PlanHandler) SaveWorkout(c *gin.Context) {
	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid clientId format.")
		return
	}

	if err := h.planService.SaveWorkout(c.Request.Context(), trainerID, clientID, req.Notes, req.CurrentWeek); err != nil {
		writePlanError(c, err, "Failed to save workout plan.")
		return
	}
	c.JSON(http.StatusOK, SaveResponse{Success: true})
}

// SaveNutrition godoc
// @Summary Replace a client's nutrition plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body SaveNutritionRequest true "Nutrition plan"
// @Success 200 {object} SaveResponse
// @Failure 400 {object} gin.H "Missing or unknown day, negative goal"
// @Router /edit_nutritional_plan [post]
func (h *PlanHandler) SaveNutrition(c *gin.Context) {
	var req SaveNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	day, ok := domain.ParseDayKey(req.Day)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "day must be a weekday name")
		return
	}
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid userId format.")
		return
	}

	plan := domain.NutritionPlan{
		ProteinGoal: req.ProteinGoal,
		CalorieGoal: req.CalorieGoal,
		Foods:       req.Foods,
		Day:         day,
	}
	if err := h.planService.SaveNutrition(c.Request.Context(), trainerID, clientID, plan); err != nil {
		writePlanError(c, err, "Failed to save nutrition plan.")
		return
	}
	c.JSON(http.StatusOK, SaveResponse{Success: true})
}

// --- Helpers ---

func (h *PlanHandler) ids(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	clientID, ok := objectIDParam(c, "clientId")
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return trainerID, clientID, true
}

// writePlanError maps service errors to status codes; anything unknown is a 500 with fallback.
func writePlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrClientNotManaged), errors.Is(err, service.ErrClientNotRole):
		abortWithError(c, http.StatusForbidden, service.ErrClientNotManaged.Error())
	case errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrArchiveDisabled):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("plan request failed")
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// bindingMessage turns the first binding failure into a short sentence.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body."
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be an email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
