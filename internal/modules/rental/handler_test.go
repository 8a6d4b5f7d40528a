package rental

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/townkart-backend/internal/modules/auth/authtest"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
)

func TestRentalRoutes(t *testing.T) {
	env := authtest.New()
	customer := env.NewUser("renter", user.RoleCustomer)
	adminUser := env.NewUser("admin", user.RoleAdmin)

	r := chi.NewRouter()
	NewHandler(NewService(newMemoryRepo())).RegisterRoutes(r, env.Gate)

	send := func(method, path, body string, as *user.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if as != nil {
			env.Authorize(t, req, as)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "/api/cars/seed", "", customer).Code)
	rec := send(http.MethodPost, "/api/cars/seed", "", adminUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"inserted":3}`, rec.Body.String())

	rec = send(http.MethodGet, "/api/cars", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cars []Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cars))
	require.Len(t, cars, 3)

	var bmw Car
	for _, c := range cars {
		if c.Category == CategoryLuxury {
			bmw = c
		}
	}
	body := `{"carId":"` + bmw.ID.String() + `","phone":"1","pickup":"A","dropoff":"B",
		"startDate":"2025-05-01","endDate":"2025-05-02","rentalDays":1}`

	assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, "/api/bookings", body, nil).Code)
	rec = send(http.MethodPost, "/api/bookings", body, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booking Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, "2950", booking.TotalAmount.String())

	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, "/api/admin/bookings", "", customer).Code)
	rec = send(http.MethodGet, "/api/admin/bookings", "", adminUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), booking.ID.String())

	path := "/api/admin/bookings/" + booking.ID.String()
	assert.Equal(t, http.StatusOK, send(http.MethodPatch, path+"/approve", "", adminUser).Code)
	assert.Equal(t, http.StatusConflict, send(http.MethodPatch, path+"/reject", "", adminUser).Code)
	assert.Equal(t, http.StatusNotFound, send(http.MethodPatch, "/api/admin/bookings/unknown/approve", "", adminUser).Code)
}
