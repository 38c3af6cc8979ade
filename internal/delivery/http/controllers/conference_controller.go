package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"confbooking/internal/delivery/http/helpers"
	"confbooking/internal/delivery/http/middleware"
	"confbooking/internal/domain"
)

const dateLayout = "2006-01-02"

// WorkshopPayload is a workshop item inside a conference payload. On update,
// an item with an id updates the existing row; without one it is created.
type WorkshopPayload struct {
	ID    *int64 `json:"id,omitempty"`
	Title string `json:"title"`
}

// OptionalPayload is an optional item inside a conference payload.
type OptionalPayload struct {
	ID    *int64   `json:"id,omitempty"`
	Title string   `json:"title"`
	Price *float64 `json:"price"`
}

// ConferencePayload carries the conference fields for create and update.
type ConferencePayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Price       *float64          `json:"price"`
	Active      *bool             `json:"active"`
	DateStart   string            `json:"date_start"`
	DateEnd     string            `json:"date_end"`
	Workshops   []WorkshopPayload `json:"workshops"`
	Optionals   []OptionalPayload `json:"optionals"`
}

// SaveConferenceRequest is the request body for POST /conferences and
// PUT /conferences/{conferenceID}.
type SaveConferenceRequest struct {
	Conference *ConferencePayload `json:"conference"`
}

// Validate implements Validator. Dates use the Y-m-d layout and date_end
// must be after date_start.
func (s SaveConferenceRequest) Validate() []string {
	var errs []string
	c := s.Conference
	if c == nil {
		return []string{"conference is required"}
	}
	if c.Title == "" {
		errs = append(errs, "conference.title is required")
	}
	if c.Description == "" {
		errs = append(errs, "conference.description is required")
	}
	if c.Image == "" {
		errs = append(errs, "conference.image is required")
	}
	if c.Price == nil {
		errs = append(errs, "conference.price is required")
	}
	if c.Active == nil {
		errs = append(errs, "conference.active is required")
	}
	start, startErr := time.Parse(dateLayout, c.DateStart)
	if startErr != nil {
		errs = append(errs, "conference.date_start must be a date in Y-m-d format")
	}
	end, endErr := time.Parse(dateLayout, c.DateEnd)
	if endErr != nil {
		errs = append(errs, "conference.date_end must be a date in Y-m-d format")
	} else if startErr == nil && !end.After(start) {
		errs = append(errs, "conference.date_end must be after conference.date_start")
	}
	for _, w := range c.Workshops {
		if w.Title == "" {
			errs = append(errs, "conference.workshops.title is required")
			break
		}
	}
	for _, o := range c.Optionals {
		if o.Title == "" {
			errs = append(errs, "conference.optionals.title is required")
			break
		}
		if o.Price == nil {
			errs = append(errs, "conference.optionals.price is required")
			break
		}
	}
	return errs
}

// ToDomain converts a validated payload to a domain Conference.
func (s SaveConferenceRequest) ToDomain() *domain.Conference {
	c := s.Conference
	start, _ := time.Parse(dateLayout, c.DateStart)
	end, _ := time.Parse(dateLayout, c.DateEnd)
	conference := &domain.Conference{
		Title:       c.Title,
		Description: c.Description,
		Image:       c.Image,
		Price:       *c.Price,
		Active:      *c.Active,
		DateStart:   start,
		DateEnd:     end,
		Workshops:   make([]*domain.Workshop, 0, len(c.Workshops)),
		Optionals:   make([]*domain.Optional, 0, len(c.Optionals)),
	}
	for _, w := range c.Workshops {
		workshop := &domain.Workshop{Title: w.Title}
		if w.ID != nil {
			workshop.ID = *w.ID
		}
		conference.Workshops = append(conference.Workshops, workshop)
	}
	for _, o := range c.Optionals {
		optional := &domain.Optional{Title: o.Title, Price: *o.Price}
		if o.ID != nil {
			optional.ID = *o.ID
		}
		conference.Optionals = append(conference.Optionals, optional)
	}
	return conference
}

type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{
		Logger:  logger,
		Service: svc,
	}
}

// GetActive godoc
// @Summary Get the active conference
// @Description Returns the active conference with its workshops and optionals plus identity-dependent discount fields. Authentication is optional; members see discounted pricing.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the conference with discount_price and discount_price_guests"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity (no active conference)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/active [get]
func (c *ConferenceController) GetActive(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	conference, err := c.Service.GetActive(r.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "Active conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// List godoc
// @Summary List all conferences
// @Description Returns every conference row. Child collections are not populated.
// @Tags conferences
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the conference list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [get]
func (c *ConferenceController) List(w http.ResponseWriter, r *http.Request) {
	conferences, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Create godoc
// @Summary Create a conference
// @Description Creates a conference with its workshops and optionals in one transaction. On any failure nothing is created.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveConferenceRequest true "Conference data"
// @Success 201 {object} helpers.APIResponse "data contains the created conference with children"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) Create(w http.ResponseWriter, r *http.Request) {
	var req SaveConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conference, err := c.Service.Create(r.Context(), req.ToDomain())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conference)
}

// GetByID godoc
// @Summary Get a conference
// @Description Returns the conference with its workshops and optionals.
// @Tags conferences
// @Produce json
// @Param conferenceID path int true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains the conference with children"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity (not found)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := conferenceIDFromPath(w, r)
	if !ok {
		return
	}
	conference, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "Conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// Update godoc
// @Summary Update a conference
// @Description Updates the scalar fields and reconciles both child collections: submitted items with an id are updated, items without one are created, and rows absent from the payload are deleted. Runs in one transaction.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path int true "Conference ID"
// @Param body body SaveConferenceRequest true "Conference data (child items may carry id)"
// @Success 200 {object} helpers.APIResponse "data contains the updated conference with reconciled children"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [put]
func (c *ConferenceController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := conferenceIDFromPath(w, r)
	if !ok {
		return
	}
	var req SaveConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conference, err := c.Service.Update(r.Context(), req.ToDomain(), id)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// DeleteResponse is the response body for DELETE /conferences/{conferenceID}.
type DeleteResponse struct {
	Message string `json:"message"`
}

// Delete godoc
// @Summary Delete a conference
// @Description Deletes the conference row. Reports success even when the id does not exist.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path int true "Conference ID"
// @Success 200 {object} helpers.APIResponse "data contains a success message"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [delete]
func (c *ConferenceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := conferenceIDFromPath(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteResponse{Message: "conference deleted successfully"})
}

// GetByOrderID godoc
// @Summary Get the conference booked under an order
// @Description Resolves the conference referenced by the first booking of the given order.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "Order ID"
// @Success 200 {object} helpers.APIResponse "data contains the conference with children"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity (not found)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders/{orderID}/conference [get]
func (c *ConferenceController) GetByOrderID(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	if orderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing orderID")
		return
	}
	conference, err := c.Service.FindByOrderID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "Conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

func conferenceIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("conferenceID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return 0, false
	}
	return id, true
}
