package bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookly/internal/shared/middleware"
	"bookly/internal/shared/validation"
	"bookly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterBindings(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(env *testEnv, userID uuid.UUID, waitlist WaitlistNotifier) *gin.Engine {
	return setupRouterAs(env, userID, middleware.RoleUser, waitlist)
}

func setupRouterAs(env *testEnv, userID uuid.UUID, role string, waitlist WaitlistNotifier) *gin.Engine {
	router := gin.New()
	asUser := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.String())
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
	pass := func(c *gin.Context) { c.Next() }
	SetupBookingRoutes(router.Group("/api/v1"), NewController(env.service, waitlist, logger.NewNop()), asUser, pass)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestController_BookingLifecycle(t *testing.T) {
	env := newTestEnv(t, 4)
	waitlist := &fakeWaitlist{}
	router := setupRouter(env, uuid.New(), waitlist)

	body := `{"content_id":"` + env.contentID.String() + `","date":"2025-03-03","start_time":"09:00","party_size":3,
		"contact_info":{"name":"Ada","email":"ada@example.com"}}`
	w := postJSON(router, "/api/v1/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	var booking BookingResponse
	require.NoError(t, json.Unmarshal(created.Data, &booking))
	assert.Equal(t, "2025-03-03", booking.Date)
	assert.Equal(t, 60.0, booking.TotalPrice)
	assert.Equal(t, StatusPending, booking.Status)

	w = postJSON(router, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(router, "/api/v1/bookings/"+booking.ID.String()+"/confirm", `{"payment_reference":"pay_1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/api/v1/bookings/"+booking.ID.String()+"/cancel", `{"reason":"sick","notify_waitlist":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	var result CancelBookingResponse
	require.NoError(t, json.Unmarshal(cancelled.Data, &result))
	assert.Equal(t, StatusCancelled, result.Booking.Status)
	assert.True(t, result.WaitlistTriggered)
	assert.Equal(t, 1, result.WaitlistNotified)
	assert.Equal(t, []int{3}, waitlist.calls)

	w = postJSON(router, "/api/v1/bookings/"+booking.ID.String()+"/cancel", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestController_CreateBooking_Validation(t *testing.T) {
	env := newTestEnv(t, 4)
	router := setupRouter(env, uuid.New(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing contact", `{"content_id":"` + env.contentID.String() + `","date":"2025-03-03","start_time":"09:00","party_size":1}`},
		{"zero party", `{"content_id":"` + env.contentID.String() + `","date":"2025-03-03","start_time":"09:00","party_size":0,"contact_info":{"name":"A","email":"a@b.co"}}`},
		{"bad time", `{"content_id":"` + env.contentID.String() + `","date":"2025-03-03","start_time":"9","party_size":1,"contact_info":{"name":"A","email":"a@b.co"}}`},
		{"bad content", `{"content_id":"nope","date":"2025-03-03","start_time":"09:00","party_size":1,"contact_info":{"name":"A","email":"a@b.co"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/v1/bookings", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestController_ListBookings(t *testing.T) {
	env := newTestEnv(t, 4)
	userID := uuid.New()
	router := setupRouter(env, userID, nil)

	_, err := env.service.CreateBookingRequest(t.Context(), userID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/bookings?status=pending", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var list BookingListResponse
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Equal(t, 1, list.Count)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/bookings?status=archived", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/contents/"+env.contentID.String()+"/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestController_BookingAccessIsLimitedToItsUser(t *testing.T) {
	env := newTestEnv(t, 4)
	ownerID := uuid.New()
	booking, err := env.service.CreateBookingRequest(t.Context(), ownerID, env.contentID, bookingInput(t, 1))
	require.NoError(t, err)
	path := "/api/v1/bookings/" + booking.ID.String()

	stranger := setupRouter(env, uuid.New(), nil)
	w := httptest.NewRecorder()
	stranger.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, postJSON(stranger, path+"/confirm", `{"payment_reference":"pay_1"}`).Code)
	assert.Equal(t, http.StatusForbidden, postJSON(stranger, path+"/cancel", "").Code)

	stored, err := env.repo.GetByID(t.Context(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Empty(t, env.transactions.settled)

	self := setupRouter(env, ownerID, nil)
	w = httptest.NewRecorder()
	self.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	admin := setupRouterAs(env, uuid.New(), middleware.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, postJSON(admin, path+"/cancel", `{"reason":"venue closed"}`).Code)
}
