package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"confbooking/internal/delivery/http/helpers"
	"confbooking/internal/delivery/http/middleware"
	"confbooking/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AddUserPayload is an account to provision during the booking. Password is
// optional; when present it must be at least 8 characters and match
// password_confirm.
type AddUserPayload struct {
	Name            string  `json:"name"`
	Surname         string  `json:"surname"`
	Phone           *string `json:"phone,omitempty"`
	Email           string  `json:"email"`
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"password_confirm,omitempty"`
	PrivacyPolicy   bool    `json:"privacy_policy"`
}

// OptionalSelectionPayload is a chosen optional with its quantity.
type OptionalSelectionPayload struct {
	ID       *int64 `json:"id"`
	Quantity *int   `json:"quantity"`
}

// ConferenceSelectionPayload books the user identified by email onto the
// conference identified by id.
type ConferenceSelectionPayload struct {
	ID        *int64                     `json:"id"`
	Email     string                     `json:"email"`
	Optionals []OptionalSelectionPayload `json:"optionals"`
	Workshops []int64                    `json:"workshops"`
}

// BookConferenceRequest is the request body for POST /conferences/booking.
type BookConferenceRequest struct {
	AddUsers    []AddUserPayload             `json:"add_users,omitempty"`
	Conferences []ConferenceSelectionPayload `json:"conferences"`
}

// Validate implements Validator.
func (b BookConferenceRequest) Validate() []string {
	var errs []string
	for i, u := range b.AddUsers {
		if u.Name == "" {
			errs = append(errs, fmt.Sprintf("add_users.%d.name is required", i))
		}
		if u.Surname == "" {
			errs = append(errs, fmt.Sprintf("add_users.%d.surname is required", i))
		}
		if u.Email == "" || !emailRegexp.MatchString(u.Email) {
			errs = append(errs, fmt.Sprintf("add_users.%d.email must be a valid email", i))
		}
		if u.Password != nil {
			if len(*u.Password) < 8 {
				errs = append(errs, fmt.Sprintf("add_users.%d.password must be at least 8 characters", i))
			}
			if u.PasswordConfirm == nil || *u.PasswordConfirm != *u.Password {
				errs = append(errs, fmt.Sprintf("add_users.%d.password_confirm must match password", i))
			}
		}
		if !u.PrivacyPolicy {
			errs = append(errs, fmt.Sprintf("add_users.%d.privacy_policy must be accepted", i))
		}
	}
	if len(b.Conferences) == 0 {
		errs = append(errs, "conferences is required")
	}
	for i, c := range b.Conferences {
		if c.ID == nil || *c.ID <= 0 {
			errs = append(errs, fmt.Sprintf("conferences.%d.id is required", i))
		}
		if c.Email == "" || !emailRegexp.MatchString(c.Email) {
			errs = append(errs, fmt.Sprintf("conferences.%d.email must be a valid email", i))
		}
		for j, o := range c.Optionals {
			if o.ID == nil || *o.ID <= 0 {
				errs = append(errs, fmt.Sprintf("conferences.%d.optionals.%d.id is required", i, j))
			}
			if o.Quantity == nil || *o.Quantity <= 0 {
				errs = append(errs, fmt.Sprintf("conferences.%d.optionals.%d.quantity is required", i, j))
			}
		}
		for j, wID := range c.Workshops {
			if wID <= 0 {
				errs = append(errs, fmt.Sprintf("conferences.%d.workshops.%d must be a valid id", i, j))
			}
		}
	}
	return errs
}

// BookConferenceResponse is the response body for POST /conferences/booking.
type BookConferenceResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// BookConference godoc
// @Summary Book a conference for multiple users
// @Description Provisions the listed users (new emails need a password), opens an order, and books each conferences entry for the user resolved by its email. Entries whose email resolves to no account are skipped silently; any other failure rolls back the whole operation.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookConferenceRequest true "Booking data"
// @Success 200 {object} helpers.APIResponse "data contains the order_id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/booking [post]
func (c *BookingController) BookConference(w http.ResponseWriter, r *http.Request) {
	var req BookConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	users := make([]domain.BookingUser, 0, len(req.AddUsers))
	for _, u := range req.AddUsers {
		user := domain.BookingUser{
			Name:          u.Name,
			Surname:       u.Surname,
			Email:         strings.TrimSpace(strings.ToLower(u.Email)),
			PrivacyPolicy: u.PrivacyPolicy,
		}
		if u.Phone != nil {
			user.Phone = *u.Phone
		}
		if u.Password != nil {
			user.Password = *u.Password
		}
		users = append(users, user)
	}
	lines := make([]domain.BookingLine, 0, len(req.Conferences))
	for _, sel := range req.Conferences {
		line := domain.BookingLine{
			ConferenceID: *sel.ID,
			Email:        strings.TrimSpace(strings.ToLower(sel.Email)),
			Workshops:    sel.Workshops,
		}
		for _, o := range sel.Optionals {
			line.Optionals = append(line.Optionals, domain.OptionalSelection{
				OptionalID: *o.ID,
				Quantity:   *o.Quantity,
			})
		}
		lines = append(lines, line)
	}

	orderID, err := c.Service.BookConference(r.Context(), identity, users, lines)
	if err != nil {
		var missingPassword *domain.MissingPasswordError
		if errors.As(err, &missingPassword) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, missingPassword.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BookConferenceResponse{
		Message: "Conference booked successfully",
		OrderID: orderID,
	})
}
