package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"
)

type AvailabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// getAvailabilityHandler godoc
//
//	@Summary		Free slots for a day
//	@Description	Returns the bookable start times for a service on a given date. Closed days and fully blocked days yield an empty list.
//	@Tags			availability
//	@Produce		json
//	@Param			serviceId	query		int		true	"Service ID"
//	@Param			date		query		string	true	"Date (YYYY-MM-DD)"
//	@Success		200			{object}	AvailabilityResponse
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/public/availability [get]
func (app *application) getAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("serviceId invalido"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), app.loc)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("date invalida, use YYYY-MM-DD"))
		return
	}

	ctx := r.Context()

	svc, err := app.store.Services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	weekly, err := app.loadSchedule(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	events, err := app.dayEvents(ctx, date)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	slots := scheduling.AvailableSlots(weekly, date, time.Duration(svc.DurationMinutes)*time.Minute, events, app.loc)
	if slots == nil {
		slots = []string{}
	}

	resp := AvailabilityResponse{Date: date.Format("2006-01-02"), Slots: slots}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
