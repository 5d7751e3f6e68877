package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"dermoagenda/internal/schedule"
	"dermoagenda/internal/store"
)

type ScheduleResponse struct {
	Schedule string `json:"schedule"`
}

type UpdateSchedulePayload struct {
	Schedule string `json:"schedule" validate:"required"`
}

// getScheduleHandler godoc
//
//	@Summary		Weekly opening hours
//	@Description	Returns the weekly schedule as a JSON-encoded string. Defaults apply when nothing was configured yet.
//	@Tags			config
//	@Produce		json
//	@Success		200	{object}	ScheduleResponse
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/public/config/schedule [get]
func (app *application) getScheduleHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := app.store.Config.Get(r.Context(), store.ScheduleConfigKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			app.internalServerError(w, r, err)
			return
		}
		encoded, err := json.Marshal(schedule.Default())
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		raw = string(encoded)
	}

	if err := app.jsonResponse(w, http.StatusOK, ScheduleResponse{Schedule: raw}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateScheduleHandler godoc
//
//	@Summary		Replace weekly opening hours
//	@Description	Validates and stores the weekly schedule. All seven days must be present with HH:MM times and start before end.
//	@Tags			config
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateSchedulePayload	true	"Weekly schedule JSON"
//	@Success		200		{object}	ScheduleResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/config/schedule [put]
func (app *application) updateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateSchedulePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	weekly, err := schedule.Parse(payload.Schedule)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Store the normalized form so every reader sees exactly seven days.
	encoded, err := json.Marshal(weekly)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Config.Set(r.Context(), store.ScheduleConfigKey, string(encoded)); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, ScheduleResponse{Schedule: string(encoded)}); err != nil {
		app.internalServerError(w, r, err)
	}
}
