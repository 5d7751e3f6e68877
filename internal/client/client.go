// Package client is the REST client the admin agenda and the public booking
// wizard talk through. The bearer credential is passed at construction; there
// is no ambient token lookup.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dermoagenda/internal/schedule"
)

// ErrConflict is returned when the server rejects a mutation because the
// slot is already taken (HTTP 409).
var ErrConflict = errors.New("horario ocupado")

// ErrNotFound is returned for stale references (HTTP 404).
var ErrNotFound = errors.New("resource not found")

// Client calls the dermoagenda API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// New constructs a client for baseURL. token is the admin bearer credential;
// leave it empty for public-only use.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching for the schedule and
// availability reads.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetCalendar fetches all events whose start falls in [from, to]. Cancelled
// events are omitted unless includeCancelled is set.
func (c *Client) GetCalendar(ctx context.Context, from, to time.Time, includeCancelled bool) ([]CalendarEventDTO, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	if includeCancelled {
		q.Set("includeCancelled", "true")
	}

	var out []CalendarEventDTO
	if err := c.doGet(ctx, "/api/admin/calendar?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBlock creates a time block. Returns ErrConflict when the interval
// is already occupied.
func (c *Client) CreateBlock(ctx context.Context, req CreateBlockRequest) (*BlockDTO, error) {
	var out BlockDTO
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/blocks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBlock cancels a block by id.
func (c *Client) CancelBlock(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/blocks/%d/cancel", id), nil, nil)
}

// Reschedule moves a booking to newStartAt, keeping its duration. Returns
// ErrConflict when the target slot is occupied.
func (c *Client) Reschedule(ctx context.Context, bookingID int64, newStartAt time.Time) error {
	body := struct {
		NewStartAt time.Time `json:"newStartAt"`
	}{NewStartAt: newStartAt}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/bookings/%d/reschedule", bookingID), body, nil)
}

// UpdateStatus transitions a booking's status.
func (c *Client) UpdateStatus(ctx context.Context, bookingID int64, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/bookings/%d/status", bookingID), body, nil)
}

// UpdateCustomer updates a booking's customer contact info.
func (c *Client) UpdateCustomer(ctx context.Context, bookingID int64, upd CustomerUpdate) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/bookings/%d/customer", bookingID), upd, nil)
}

// GetHistory fetches the audit trail for a booking.
func (c *Client) GetHistory(ctx context.Context, bookingID int64) ([]HistoryEntry, error) {
	var out []HistoryEntry
	if err := c.doGet(ctx, fmt.Sprintf("/api/admin/bookings/%d/history", bookingID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSchedule fetches and parses the weekly schedule. The payload carries
// the schedule as a JSON string, exactly as the config store holds it.
func (c *Client) GetSchedule(ctx context.Context) (schedule.Weekly, error) {
	var out struct {
		Schedule string `json:"schedule"`
	}

	const cacheKey = "config:schedule"
	if !c.readCache(ctx, cacheKey, &out) {
		if err := c.doGet(ctx, "/api/public/config/schedule", &out); err != nil {
			return nil, err
		}
		c.writeCache(ctx, cacheKey, out)
	}

	return schedule.Parse(out.Schedule)
}

// UpdateSchedule replaces the weekly schedule (admin).
func (c *Client) UpdateSchedule(ctx context.Context, weekly schedule.Weekly) error {
	raw, err := json.Marshal(weekly)
	if err != nil {
		return err
	}
	body := struct {
		Schedule string `json:"schedule"`
	}{Schedule: string(raw)}
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/config/schedule", body, nil); err != nil {
		return err
	}
	c.dropCache(ctx, "config:schedule")
	return nil
}

// GetAvailability fetches the free "HH:MM" slots for a service on a date
// (YYYY-MM-DD).
func (c *Client) GetAvailability(ctx context.Context, serviceID int64, date string) ([]string, error) {
	q := url.Values{}
	q.Set("serviceId", fmt.Sprint(serviceID))
	q.Set("date", date)
	path := "/api/public/availability?" + q.Encode()

	cacheKey := fmt.Sprintf("availability:%d:%s", serviceID, date)
	var out struct {
		Date  string   `json:"date"`
		Slots []string `json:"slots"`
	}
	if c.readCache(ctx, cacheKey, &out) {
		return out.Slots, nil
	}
	if err := c.doGet(ctx, path, &out); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, out)
	return out.Slots, nil
}

// CreateBooking submits a public booking request. Returns ErrConflict when
// the slot was taken in the meantime.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	var out BookingDTO
	if err := c.doJSON(ctx, http.MethodPost, "/api/public/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentPreference asks for the provider checkout URL for a booking.
func (c *Client) CreatePaymentPreference(ctx context.Context, bookingID int64) (string, error) {
	var out struct {
		RedirectURL string `json:"redirectUrl"`
	}
	path := fmt.Sprintf("/api/public/payments/bookings/%d/preference", bookingID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

func (c *Client) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(data))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}

	// All success responses use the {"data": ...} envelope.
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusConflict:
		if body.Message != "" {
			return fmt.Errorf("%s: %w", body.Message, ErrConflict)
		}
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if body.Message != "" {
			return fmt.Errorf("api: %s (http %d)", body.Message, resp.StatusCode)
		}
		return fmt.Errorf("api: http %d", resp.StatusCode)
	}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) dropCache(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, key).Err()
}
