package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/spend-calendar/internal/middleware"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the public routes on r and the user routes behind auth
func (h *Handler) RegisterRoutes(r *mux.Router, auth mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/redistribute", h.Redistribute).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(auth)
	authRouter.HandleFunc("/plans", h.CreatePlan).Methods("POST")
	authRouter.HandleFunc("/calendars/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.BuildCalendar).Methods("POST")
	authRouter.HandleFunc("/calendars/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.GetCalendar).Methods("GET")
	authRouter.HandleFunc("/calendars/{year:[0-9]{4}}/{month:[0-9]{1,2}}/spend", h.RecordSpend).Methods("POST")
	authRouter.HandleFunc("/calendars/{year:[0-9]{4}}/{month:[0-9]{1,2}}/redistribute", h.RedistributeMonth).Methods("POST")
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreatePlan classifies the user's income and stores a new monthly plan
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req service.PlanRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	plan, err := h.svc.ClassifyAndAllocate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

type calendarRequest struct {
	// Plan is distributed as is
	Plan *models.MonthlyBudgetPlan `json:"plan,omitempty"`
	// Request builds a fresh plan first when Plan is omitted
	Request *service.PlanRequest `json:"request,omitempty"`
}

type calendarResponse struct {
	Plan *models.MonthlyBudgetPlan `json:"plan,omitempty"`
	Days []models.CalendarDay      `json:"days"`
}

// BuildCalendar distributes a plan over the month in the path and stores it
func (h *Handler) BuildCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.period(w, r)
	if !ok {
		return
	}
	var req calendarRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID := middleware.UserID(r.Context())

	resp := calendarResponse{Plan: req.Plan}
	if resp.Plan == nil {
		if req.Request == nil {
			h.writeError(w, &models.InputValidationError{Field: "plan", Reason: "plan or request is required"})
			return
		}
		req.Request.UserID = userID
		plan, err := h.svc.ClassifyAndAllocate(r.Context(), *req.Request)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Plan = plan
	}

	days, err := h.svc.BuildCalendar(r.Context(), userID, resp.Plan, year, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp.Days = days
	writeJSON(w, http.StatusCreated, resp)
}

// GetCalendar returns the stored month with spent amounts
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.period(w, r)
	if !ok {
		return
	}
	days, err := h.svc.Calendar(r.Context(), middleware.UserID(r.Context()), year, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Days: days})
}

type spendRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// RecordSpend adds spending to a day of the month in the path
func (h *Handler) RecordSpend(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.period(w, r)
	if !ok {
		return
	}
	var req spendRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil || date.Year() != year || date.Month() != month {
		h.writeError(w, &models.InputValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("must be a %s date within %04d-%02d", models.DateLayout, year, month),
		})
		return
	}

	if err := h.svc.RecordSpend(r.Context(), middleware.UserID(r.Context()), date, req.Category, req.Amount); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RedistributeMonth rebalances the stored month in the path
func (h *Handler) RedistributeMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.period(w, r)
	if !ok {
		return
	}
	run, err := h.svc.RedistributeMonth(r.Context(), middleware.UserID(r.Context()), year, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

type redistributeRequest struct {
	Days []models.DayBalance `json:"days"`
}

// Redistribute rebalances a snapshot supplied by the caller
func (h *Handler) Redistribute(w http.ResponseWriter, r *http.Request) {
	var req redistributeRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Redistribute(req.Days))
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		h.writeError(w, &models.InputValidationError{Field: "year", Reason: "must be a number"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		h.writeError(w, &models.InputValidationError{Field: "month", Reason: "must be between 1 and 12"})
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, &models.InputValidationError{Field: "body", Reason: err.Error()})
		return false
	}
	return true
}

type errorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		invalid    *models.InputValidationError
		infeasible *models.InfeasibleBudgetError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Details: invalid})
	case errors.As(err, &infeasible):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(),
			Details: map[string]decimal.Decimal{
				"income":      infeasible.Income,
				"fixed_total": infeasible.FixedTotal,
				"shortfall":   infeasible.Shortfall(),
			},
		})
	case errors.Is(err, service.ErrMonthInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
