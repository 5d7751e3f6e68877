package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dermoagenda/internal/payments"
	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"

	"github.com/go-chi/chi/v5"
)

type PaymentPreferenceResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// createPaymentPreferenceHandler godoc
//
//	@Summary		Start checkout for a booking
//	@Description	Creates a provider checkout preference for the booking and returns the redirect URL
//	@Tags			payments
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	PaymentPreferenceResponse
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/public/payments/bookings/{bookingID}/preference [post]
func (app *application) createPaymentPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	booking, err := app.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		app.writeBookingError(w, r, err)
		return
	}

	if booking.PaymentStatus == string(scheduling.PaymentPaid) {
		app.badRequestResponse(w, r, errors.New("el turno ya fue pagado"))
		return
	}

	resp, err := app.gateway.InitiatePayment(ctx, payments.PaymentRequest{
		TransactionID: booking.Number,
		Amount:        booking.Amount,
		ProductName:   booking.ServiceName,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerWhatsapp,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, PaymentPreferenceResponse{RedirectURL: resp.RedirectURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// webhookNotification is the provider's IPN body. Only the payment id matters;
// everything else is re-fetched from the provider before trusting it.
type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// paymentWebhookHandler godoc
//
//	@Summary		Payment notification
//	@Description	Provider webhook. Verifies the reported payment against the provider and, when approved, marks the booking paid and confirms it.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/public/payments/webhook [post]
func (app *application) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("id")
	if paymentID == "" {
		var notification webhookNotification
		if err := readJSON(w, r, &notification); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		paymentID = notification.Data.ID
	}
	if paymentID == "" {
		app.badRequestResponse(w, r, errors.New("missing payment id"))
		return
	}

	ctx := r.Context()

	verified, err := app.gateway.VerifyPayment(ctx, payments.PaymentVerifyRequest{PaymentID: paymentID})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Always acknowledge so the provider stops retrying; unapproved payments
	// leave the booking untouched.
	if !verified.Success {
		app.logger.Infow("ignoring unapproved payment notification", "paymentID", paymentID, "status", verified.Status)
		if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": "ignored"}); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	booking, err := app.store.Bookings.GetByNumber(ctx, verified.ExternalReference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.logger.Warnw("payment references unknown booking", "paymentID", paymentID, "reference", verified.ExternalReference)
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := booking.ConfirmPayment(); err != nil {
		// Duplicate notifications for an already paid booking are normal.
		app.logger.Infow("payment notification not applied", "booking", booking.Number, "reason", err.Error())
		if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": "ignored"}); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.Bookings.UpdateStatus(ctx, booking); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.appendHistory(r, booking.ID, store.HistoryPaymentUpdated, store.ActorSystem,
		fmt.Sprintf("pago %s aprobado", paymentID))

	app.sendBookingMail(booking, "confirmed")

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
