package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confbooking/internal/delivery/http/middleware"
	"confbooking/internal/domain"
)

// fakeBookingService records the arguments of the last BookConference call.
type fakeBookingService struct {
	orderID  string
	err      error
	identity *domain.Identity
	users    []domain.BookingUser
	lines    []domain.BookingLine
}

func (f *fakeBookingService) BookConference(ctx context.Context, identity *domain.Identity, users []domain.BookingUser, lines []domain.BookingLine) (string, error) {
	f.identity = identity
	f.users = users
	f.lines = lines
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

func validBookingBody() string {
	return `{
		"add_users":[{
			"name":"Bob","surname":"Builder",
			"email":"Bob@Example.com",
			"password":"secret-123","password_confirm":"secret-123",
			"privacy_policy":true
		}],
		"conferences":[{
			"id":7,
			"email":"Bob@Example.com",
			"optionals":[{"id":2,"quantity":3}],
			"workshops":[1]
		}]
	}`
}

func authenticatedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/conferences/booking", strings.NewReader(body))
	identity := &domain.Identity{UserID: 1, Email: "owner@example.com", Membership: true, Profile: domain.ProfileClient}
	return req.WithContext(middleware.SetIdentity(req.Context(), identity))
}

func TestBookingController_BookConference_success(t *testing.T) {
	svc := &fakeBookingService{orderID: "ord-123"}
	c := NewBookingController(testLogger(), svc)

	rec := httptest.NewRecorder()
	c.BookConference(rec, authenticatedRequest(validBookingBody()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conference booked successfully")
	assert.Contains(t, rec.Body.String(), "ord-123")

	require.NotNil(t, svc.identity)
	assert.Equal(t, int64(1), svc.identity.UserID)

	// emails are lowercased before they reach the service
	require.Len(t, svc.users, 1)
	assert.Equal(t, "bob@example.com", svc.users[0].Email)
	assert.Equal(t, "secret-123", svc.users[0].Password)
	require.Len(t, svc.lines, 1)
	assert.Equal(t, int64(7), svc.lines[0].ConferenceID)
	assert.Equal(t, "bob@example.com", svc.lines[0].Email)
	require.Len(t, svc.lines[0].Optionals, 1)
	assert.Equal(t, int64(2), svc.lines[0].Optionals[0].OptionalID)
	assert.Equal(t, 3, svc.lines[0].Optionals[0].Quantity)
	assert.Equal(t, []int64{1}, svc.lines[0].Workshops)
}

func TestBookingController_BookConference_requires_identity(t *testing.T) {
	svc := &fakeBookingService{orderID: "ord-123"}
	c := NewBookingController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/conferences/booking", strings.NewReader(validBookingBody()))
	rec := httptest.NewRecorder()
	c.BookConference(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.identity)
}

func TestBookingController_BookConference_missing_password(t *testing.T) {
	svc := &fakeBookingService{err: &domain.MissingPasswordError{Email: "bob@example.com"}}
	c := NewBookingController(testLogger(), svc)

	rec := httptest.NewRecorder()
	c.BookConference(rec, authenticatedRequest(validBookingBody()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "bob@example.com")
}

func TestBookingController_BookConference_validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "no conferences",
			body:    `{"conferences":[]}`,
			wantMsg: "conferences is required",
		},
		{
			name:    "short password",
			body:    `{"add_users":[{"name":"B","surname":"B","email":"b@example.com","password":"short","password_confirm":"short","privacy_policy":true}],"conferences":[{"id":7,"email":"b@example.com"}]}`,
			wantMsg: "add_users.0.password must be at least 8 characters",
		},
		{
			name:    "password confirm mismatch",
			body:    `{"add_users":[{"name":"B","surname":"B","email":"b@example.com","password":"secret-123","password_confirm":"other-456","privacy_policy":true}],"conferences":[{"id":7,"email":"b@example.com"}]}`,
			wantMsg: "add_users.0.password_confirm must match password",
		},
		{
			name:    "privacy policy not accepted",
			body:    `{"add_users":[{"name":"B","surname":"B","email":"b@example.com","privacy_policy":false}],"conferences":[{"id":7,"email":"b@example.com"}]}`,
			wantMsg: "add_users.0.privacy_policy must be accepted",
		},
		{
			name:    "invalid line email",
			body:    `{"conferences":[{"id":7,"email":"not-an-email"}]}`,
			wantMsg: "conferences.0.email must be a valid email",
		},
		{
			name:    "optional without quantity",
			body:    `{"conferences":[{"id":7,"email":"b@example.com","optionals":[{"id":2}]}]}`,
			wantMsg: "conferences.0.optionals.0.quantity is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBookingService{orderID: "ord-123"}
			c := NewBookingController(testLogger(), svc)

			rec := httptest.NewRecorder()
			c.BookConference(rec, authenticatedRequest(tt.body))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			resp := decodeEnvelope(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Nil(t, svc.identity)
		})
	}
}
