package main

import (
	"net/http"

	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"
)

// listServicesHandler godoc
//
//	@Summary		Active services
//	@Description	Lists the services customers can book, with duration and price
//	@Tags			services
//	@Produce		json
//	@Success		200	{array}		store.Service
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/public/services [get]
func (app *application) listServicesHandler(w http.ResponseWriter, r *http.Request) {
	services, err := app.store.Services.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, services); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPublicBookingHandler godoc
//
//	@Summary		Create a booking
//	@Description	Customer-side booking creation. The booking starts PENDING with payment PENDING until the payment webhook confirms it.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		BookingPayload	true	"Booking"
//	@Success		201		{object}	store.Booking
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	ErrorBadRequestResponse	"Horario ocupado"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/public/bookings [post]
func (app *application) createPublicBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload BookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Customers cannot override the service's duration or price.
	payload.DurationMinutes = 0
	payload.Amount = 0

	booking, err := app.insertBooking(r, payload, scheduling.BookingPending, scheduling.PaymentPending, store.ActorCustomer)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}
