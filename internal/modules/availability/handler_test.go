package availability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"turfbook/internal/pkg/clock"
)

func availabilityRouter(reader ClaimedHoursReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewService(reader, testCalculator(), clock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestGetAvailability_BadDateIsBadRequest(t *testing.T) {
	r := availabilityRouter(new(MockClaimedHoursReader))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots/availability?date=15-06-2026", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGetAvailability_StoreFailureIsInternalError(t *testing.T) {
	reader := new(MockClaimedHoursReader)
	reader.On("ClaimedHours", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	r := availabilityRouter(reader)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots/availability?date=2026-06-15", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	// The driver failure detail stays out of the client response.
	assert.NotContains(t, w.Body.String(), "connection reset")
}
