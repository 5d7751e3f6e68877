package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dermoagenda/internal/mailer"
	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"

	"github.com/go-chi/chi/v5"
)

// BookingPayload is the create-booking request shared by the public wizard
// and the admin manual form.
type BookingPayload struct {
	ServiceID        int64   `json:"serviceId" validate:"required"`
	CustomerName     string  `json:"customerName" validate:"required,max=120"`
	CustomerEmail    string  `json:"customerEmail" validate:"omitempty,email,max=255"`
	CustomerWhatsapp string  `json:"customerWhatsapp" validate:"required,whatsapp"`
	CustomerComments string  `json:"customerComments" validate:"max=500"`
	BookingDate      string  `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	BookingTime      string  `json:"bookingTime" validate:"required"`
	DurationMinutes  int     `json:"durationMinutes" validate:"omitempty,min=0"`
	Amount           float64 `json:"amount" validate:"omitempty,min=0"`
}

var (
	errDayDisabled = errors.New("el dia seleccionado no esta habilitado")
	errBadDateTime = errors.New("fecha u hora invalida")
)

// insertBooking runs the shared create path: resolve the service, derive the
// interval in the clinic timezone, verify the day is open and the slot free,
// then persist booking plus audit entry.
func (app *application) insertBooking(r *http.Request, payload BookingPayload, status scheduling.BookingStatus, payment scheduling.PaymentStatus, actor string) (*store.Booking, error) {
	ctx := r.Context()

	svc, err := app.store.Services.GetByID(ctx, payload.ServiceID)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", payload.BookingDate, app.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDateTime, err)
	}

	weekly, err := app.loadSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if !weekly.IsDayEnabled(date) {
		return nil, errDayDisabled
	}

	start, err := scheduling.AtClock(date, payload.BookingTime, app.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDateTime, err)
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	if payload.DurationMinutes > 0 {
		duration = time.Duration(payload.DurationMinutes) * time.Minute
	}

	if err := app.checkInterval(ctx, start, duration, 0); err != nil {
		return nil, err
	}

	amount := svc.Price
	if payload.Amount > 0 {
		amount = payload.Amount
	}

	booking := &store.Booking{
		Number:           store.NewBookingNumber(),
		ServiceID:        svc.ID,
		ServiceName:      svc.Name,
		CustomerName:     payload.CustomerName,
		CustomerEmail:    payload.CustomerEmail,
		CustomerWhatsapp: payload.CustomerWhatsapp,
		CustomerComments: payload.CustomerComments,
		StartAt:          start,
		EndAt:            start.Add(duration),
		Amount:           amount,
		Status:           string(status),
		PaymentStatus:    string(payment),
	}
	if err := app.store.Bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	app.appendHistory(r, booking.ID, store.HistoryCreated, actor,
		fmt.Sprintf("turno %s creado para %s", booking.Number, start.In(app.loc).Format("2006-01-02 15:04")))

	return booking, nil
}

// appendHistory records an audit entry; failures are logged, never fatal to
// the request.
func (app *application) appendHistory(r *http.Request, bookingID int64, eventType, actor, detail string) {
	entry := &store.HistoryEntry{
		BookingID: bookingID,
		EventType: eventType,
		Actor:     actor,
		Detail:    detail,
	}
	if err := app.store.History.Append(r.Context(), entry); err != nil {
		app.logger.Errorw("failed to append booking history", "bookingID", bookingID, "event", eventType, "error", err.Error())
	}
}

func (app *application) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrConflict):
		app.conflictResponse(w, r, msgSlotTaken)
	case errors.Is(err, store.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, errInvalidAlignment), errors.Is(err, errDayDisabled), errors.Is(err, errBadDateTime):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// createManualBookingHandler godoc
//
//	@Summary		Create a booking manually
//	@Description	Admin-side booking creation; the booking is confirmed immediately and no payment is required
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		BookingPayload	true	"Booking"
//	@Success		201		{object}	store.Booking
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	ErrorBadRequestResponse	"Horario ocupado"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings [post]
func (app *application) createManualBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload BookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.insertBooking(r, payload, scheduling.BookingConfirmed, scheduling.PaymentNotRequired, store.ActorAdmin)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ReschedulePayload struct {
	NewStartAt time.Time `json:"newStartAt" validate:"required"`
}

// rescheduleBookingHandler godoc
//
//	@Summary		Reschedule a booking
//	@Description	Moves a booking to a new start, keeping its duration. The target slot must be free.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int					true	"Booking ID"
//	@Param			payload		body		ReschedulePayload	true	"New start"
//	@Success		200			{object}	store.Booking
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		409			{object}	ErrorBadRequestResponse	"Horario ocupado"
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings/{bookingID}/reschedule [patch]
func (app *application) rescheduleBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReschedulePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	booking, err := app.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	if err := app.checkInterval(ctx, payload.NewStartAt, booking.EndAt.Sub(booking.StartAt), booking.ID); err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	previous := booking.StartAt
	if err := booking.Reschedule(payload.NewStartAt); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Bookings.UpdateTimes(ctx, booking); err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	app.appendHistory(r, booking.ID, store.HistoryRescheduled, store.ActorAdmin,
		fmt.Sprintf("de %s a %s",
			previous.In(app.loc).Format("2006-01-02 15:04"),
			booking.StartAt.In(app.loc).Format("2006-01-02 15:04")))

	app.sendBookingMail(booking, "rescheduled")

	if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// updateBookingStatusHandler godoc
//
//	@Summary		Change booking status
//	@Description	Applies a status transition; invalid transitions are rejected
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int					true	"Booking ID"
//	@Param			payload		body		UpdateStatusPayload	true	"Target status"
//	@Success		200			{object}	store.Booking
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings/{bookingID}/status [patch]
func (app *application) updateBookingStatusHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	booking, err := app.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	previous := booking.Status
	switch scheduling.BookingStatus(payload.Status) {
	case scheduling.BookingCancelled:
		err = booking.Cancel()
	case scheduling.BookingCompleted:
		err = booking.Complete()
	case scheduling.BookingConfirmed:
		err = booking.Confirm()
	default:
		err = fmt.Errorf("no se puede volver el turno a %s", payload.Status)
	}
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Bookings.UpdateStatus(ctx, booking); err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	app.appendHistory(r, booking.ID, store.HistoryStatusChanged, store.ActorAdmin,
		fmt.Sprintf("%s -> %s", previous, booking.Status))

	if booking.Status == string(scheduling.BookingCancelled) && booking.CustomerEmail != "" {
		app.sendBookingMail(booking, "cancelled")
	}

	if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCustomerPayload struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Whatsapp string `json:"whatsapp" validate:"required,whatsapp"`
	Comments string `json:"comments" validate:"max=500"`
}

// updateBookingCustomerHandler godoc
//
//	@Summary		Update customer info
//	@Description	Replaces the booking's customer contact fields
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int						true	"Booking ID"
//	@Param			payload		body		UpdateCustomerPayload	true	"Customer fields"
//	@Success		200			{object}	store.Booking
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings/{bookingID}/customer [patch]
func (app *application) updateBookingCustomerHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCustomerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	booking, err := app.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	booking.CustomerName = payload.Name
	booking.CustomerEmail = payload.Email
	booking.CustomerWhatsapp = payload.Whatsapp
	booking.CustomerComments = payload.Comments

	if err := app.store.Bookings.UpdateCustomer(ctx, booking); err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	app.appendHistory(r, booking.ID, store.HistoryCustomerUpdated, store.ActorAdmin, "datos de contacto actualizados")

	if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getBookingHistoryHandler godoc
//
//	@Summary		Booking audit trail
//	@Description	Lists the append-only history entries for a booking, oldest first
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{array}		store.HistoryEntry
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings/{bookingID}/history [get]
func (app *application) getBookingHistoryHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if _, err := app.store.Bookings.GetByID(ctx, bookingID); err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	entries, err := app.store.History.ListByBooking(ctx, bookingID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, entries); err != nil {
		app.internalServerError(w, r, err)
	}
}

func mailTemplateFor(kind string) string {
	switch kind {
	case "confirmed":
		return mailer.BookingConfirmedTemplate
	case "cancelled":
		return mailer.BookingCancelledTemplate
	case "rescheduled":
		return mailer.BookingRescheduleTemplate
	}
	return ""
}

// sendBookingMail delivers a booking notification in the background; mail
// failures never fail the request.
func (app *application) sendBookingMail(booking *store.Booking, kind string) {
	template := mailTemplateFor(kind)
	if template == "" || booking.CustomerEmail == "" {
		return
	}

	data := map[string]string{
		"Number":       booking.Number,
		"CustomerName": booking.CustomerName,
		"ServiceName":  booking.ServiceName,
		"Date":         booking.StartAt.In(app.loc).Format("02/01/2006"),
		"Time":         booking.StartAt.In(app.loc).Format("15:04"),
	}

	go func() {
		if _, err := app.mailer.Send(template, booking.CustomerName, booking.CustomerEmail, data); err != nil {
			app.logger.Errorw("failed to send booking email", "template", template, "booking", booking.Number, "error", err.Error())
		}
	}()
}
