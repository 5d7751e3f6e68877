package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dermoagenda/internal/scheduling"
	"dermoagenda/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateBlockPayload struct {
	StartAt time.Time `json:"startAt" validate:"required"`
	EndAt   time.Time `json:"endAt" validate:"required"`
	Reason  string    `json:"reason" validate:"required,max=255"`
}

// createBlockHandler godoc
//
//	@Summary		Create a time block
//	@Description	Blocks an interval of the agenda. The interval must start on :00 or :30 and be free.
//	@Tags			blocks
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateBlockPayload	true	"Block interval"
//	@Success		201		{object}	store.Block
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	ErrorBadRequestResponse	"Horario ocupado"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/blocks [post]
func (app *application) createBlockHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBlockPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !payload.StartAt.Before(payload.EndAt) {
		app.badRequestResponse(w, r, errors.New("el inicio debe ser anterior al fin"))
		return
	}

	// Both ends must sit on the slot grid; checkInterval only looks at the start.
	if !scheduling.Aligned(payload.EndAt.In(app.loc)) {
		app.badRequestResponse(w, r, errInvalidAlignment)
		return
	}

	ctx := r.Context()

	err := app.checkInterval(ctx, payload.StartAt, payload.EndAt.Sub(payload.StartAt), 0)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrConflict):
		app.conflictResponse(w, r, msgSlotTaken)
		return
	case errors.Is(err, errInvalidAlignment):
		app.badRequestResponse(w, r, err)
		return
	default:
		app.internalServerError(w, r, err)
		return
	}

	block := &store.Block{
		Number:  store.NewBlockNumber(),
		StartAt: payload.StartAt,
		EndAt:   payload.EndAt,
		Reason:  payload.Reason,
		Status:  string(scheduling.BlockActive),
	}
	if err := app.store.Blocks.Create(ctx, block); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, block); err != nil {
		app.internalServerError(w, r, err)
	}
}

// cancelBlockHandler godoc
//
//	@Summary		Cancel a block
//	@Description	Marks an active block cancelled, freeing its interval
//	@Tags			blocks
//	@Produce		json
//	@Param			blockID	path		int	true	"Block ID"
//	@Success		200		{object}	store.Block
//	@Failure		404		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/blocks/{blockID}/cancel [patch]
func (app *application) cancelBlockHandler(w http.ResponseWriter, r *http.Request) {
	blockID, err := strconv.ParseInt(chi.URLParam(r, "blockID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if err := app.store.Blocks.Cancel(ctx, blockID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	block, err := app.store.Blocks.GetByID(ctx, blockID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, block); err != nil {
		app.internalServerError(w, r, err)
	}
}
