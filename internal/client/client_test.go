package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dermoagenda/internal/scheduling"
)

func TestGetCalendar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/calendar", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("includeCancelled"))
		assert.NotEmpty(t, r.URL.Query().Get("from"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"type":"BOOKING","startAt":"2025-06-02T09:00:00-03:00","endAt":"2025-06-02T10:00:00-03:00","status":"CONFIRMED","customerName":"Ana","serviceName":"Limpieza facial","paymentStatus":"PAID"},
			{"id":2,"type":"BLOCK","startAt":"2025-06-02T13:00:00-03:00","endAt":"2025-06-02T14:00:00-03:00","status":"ACTIVE","reason":"Almuerzo"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token")
	dtos, err := c.GetCalendar(context.Background(), time.Now(), time.Now().AddDate(0, 1, 0), true)
	require.NoError(t, err)
	require.Len(t, dtos, 2)

	ev, err := dtos[0].Event()
	require.NoError(t, err)
	b, ok := ev.(scheduling.BookingEvent)
	require.True(t, ok)
	assert.Equal(t, "Ana", b.CustomerName)
	assert.Equal(t, scheduling.BookingConfirmed, b.Status)

	ev, err = dtos[1].Event()
	require.NoError(t, err)
	bl, ok := ev.(scheduling.BlockEvent)
	require.True(t, ok)
	assert.Equal(t, "Almuerzo", bl.Reason)
	assert.True(t, bl.Occupies())
}

func TestEventRejectsUnknownType(t *testing.T) {
	_, err := CalendarEventDTO{ID: 1, Type: "HOLIDAY"}.Event()
	assert.Error(t, err)
}

func TestRescheduleConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/admin/bookings/7/reschedule", r.URL.Path)

		var body struct {
			NewStartAt time.Time `json:"newStartAt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body.NewStartAt.IsZero())

		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"El horario seleccionado ya esta ocupado","status":409}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	err := c.Reschedule(context.Background(), 7, time.Now())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "ocupado")
}

func TestCreateBlockConflictWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateBlock(context.Background(), CreateBlockRequest{Reason: "Feriado"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"not found","status":404}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	err := c.CancelBlock(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/config/schedule", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "public route needs no token")

		payload := map[string]any{
			"data": map[string]string{
				"schedule": `{"monday":{"enabled":true,"startTime":"09:00","endTime":"18:00"}}`,
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	weekly, err := c.GetSchedule(context.Background())
	require.NoError(t, err)

	hours := weekly["monday"]
	require.True(t, hours.Enabled)
	assert.Equal(t, "09:00", hours.StartTime)
	assert.Equal(t, "18:00", hours.EndTime)
	assert.False(t, weekly["sunday"].Enabled, "missing keys normalize to disabled")
}

func TestGetAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/availability", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("serviceId"))
		assert.Equal(t, "2025-06-02", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"data":{"date":"2025-06-02","slots":["09:00","09:30","10:30"]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	slots, err := c.GetAvailability(context.Background(), 3, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:30"}, slots)
}

func TestCreatePaymentPreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/payments/bookings/12/preference", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"data":{"redirectUrl":"https://pay.example.com/pref/abc"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	url, err := c.CreatePaymentPreference(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/pref/abc", url)
}
