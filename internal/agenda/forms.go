package agenda

import (
	"context"
	"errors"
	"strings"
	"time"

	"dermoagenda/internal/client"
	"dermoagenda/internal/schedule"
	"dermoagenda/internal/scheduling"
)

// BlockAPI is the slice of the REST client the block form submits through.
type BlockAPI interface {
	CreateBlock(ctx context.Context, req client.CreateBlockRequest) (*client.BlockDTO, error)
}

// BookingAPI is the slice of the REST client the manual booking form submits
// through.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req client.CreateBookingRequest) (*client.BookingDTO, error)
}

// BlockForm is the bounded block-creation form. Start times and durations are
// derived from the day's configured hours, never free-typed.
type BlockForm struct {
	sched schedule.Weekly
	loc   *time.Location

	Date      time.Time
	StartTime string
	Duration  scheduling.BlockDuration
	Reason    string

	// ErrorMessage is set on a conflict so the form can show it inline
	// without closing.
	ErrorMessage string
}

// NewBlockForm builds a block form bound to the weekly schedule.
func NewBlockForm(sched schedule.Weekly, loc *time.Location) *BlockForm {
	return &BlockForm{sched: sched, loc: loc}
}

// SetDate selects the block's date and resets the time and duration choices
// to that day's options.
func (f *BlockForm) SetDate(date time.Time) {
	f.Date = date
	f.StartTime = ""
	f.Duration = scheduling.BlockDuration{}
	f.ErrorMessage = ""
}

// StartOptions lists the selectable start times for the chosen date. Empty
// when the day is disabled.
func (f *BlockForm) StartOptions() []string {
	return scheduling.SlotTimes(f.sched, f.Date)
}

// DurationOptions lists the selectable durations for the chosen date,
// including the full-day option sized to that day's hours.
func (f *BlockForm) DurationOptions() []scheduling.BlockDuration {
	return scheduling.BlockDurationOptions(f.sched, f.Date)
}

// SetDuration picks a duration. The full-day choice pins the start time to
// the day's opening hour.
func (f *BlockForm) SetDuration(d scheduling.BlockDuration) {
	f.Duration = d
	if d.FullDay {
		if hours, ok := f.sched.DayHours(f.Date); ok {
			f.StartTime = hours.StartTime
		}
	}
}

// Validate checks the form. Returns field messages keyed by field name;
// empty map means the form may submit.
func (f *BlockForm) Validate() map[string]string {
	problems := map[string]string{}
	if !f.sched.IsDayEnabled(f.Date) {
		problems["date"] = "El dia seleccionado no esta habilitado"
	}
	if f.StartTime == "" {
		problems["startTime"] = "Seleccione un horario"
	}
	if f.Duration.Minutes <= 0 {
		problems["duration"] = "Seleccione una duracion"
	}
	if strings.TrimSpace(f.Reason) == "" {
		problems["reason"] = "Ingrese un motivo"
	}
	return problems
}

// Build assembles the create-block request: explicit start and end instants
// in the configured timezone.
func (f *BlockForm) Build() (client.CreateBlockRequest, error) {
	if problems := f.Validate(); len(problems) > 0 {
		return client.CreateBlockRequest{}, errors.New("formulario incompleto")
	}
	start, err := scheduling.AtClock(f.Date, f.StartTime, f.loc)
	if err != nil {
		return client.CreateBlockRequest{}, err
	}
	return client.CreateBlockRequest{
		StartAt: start,
		EndAt:   start.Add(time.Duration(f.Duration.Minutes) * time.Minute),
		Reason:  strings.TrimSpace(f.Reason),
	}, nil
}

// Submit sends the block. A conflict keeps the form open with an inline
// message; any other failure propagates to the caller.
func (f *BlockForm) Submit(ctx context.Context, api BlockAPI, notify Notifier) error {
	req, err := f.Build()
	if err != nil {
		return err
	}

	if _, err := api.CreateBlock(ctx, req); err != nil {
		if errors.Is(err, client.ErrConflict) {
			f.ErrorMessage = MsgSlotTaken
			return err
		}
		notify.Error(MsgBlockCreateFail)
		return err
	}

	f.ErrorMessage = ""
	notify.Success(MsgBlockCreated)
	return nil
}

// ManualBookingForm is the admin-side booking form. Service choice fixes the
// duration and amount; time options come from the day's schedule.
type ManualBookingForm struct {
	sched schedule.Weekly
	loc   *time.Location

	ServiceID       int64
	ServiceDuration int
	ServiceAmount   float64

	Date time.Time
	Time string

	CustomerName     string
	CustomerEmail    string
	CustomerWhatsapp string
	CustomerComments string
}

// NewManualBookingForm builds a booking form bound to the weekly schedule.
func NewManualBookingForm(sched schedule.Weekly, loc *time.Location) *ManualBookingForm {
	return &ManualBookingForm{sched: sched, loc: loc}
}

// SetService selects the service; duration and price derive from it.
func (f *ManualBookingForm) SetService(id int64, durationMinutes int, amount float64) {
	f.ServiceID = id
	f.ServiceDuration = durationMinutes
	f.ServiceAmount = amount
}

// DayEnabled reports whether the chosen date accepts bookings at all. The
// form disables the time field entirely on disabled days.
func (f *ManualBookingForm) DayEnabled() bool {
	return f.sched.IsDayEnabled(f.Date)
}

// TimeOptions lists the selectable times for the chosen date.
func (f *ManualBookingForm) TimeOptions() []string {
	return scheduling.SlotTimes(f.sched, f.Date)
}

// Validate checks required fields. The server stays authoritative for
// conflicts; this only gates obviously invalid submissions.
func (f *ManualBookingForm) Validate() map[string]string {
	problems := map[string]string{}
	if f.ServiceID == 0 {
		problems["service"] = "Seleccione un servicio"
	}
	if strings.TrimSpace(f.CustomerName) == "" {
		problems["customerName"] = "Ingrese el nombre"
	}
	if strings.TrimSpace(f.CustomerWhatsapp) == "" {
		problems["customerWhatsapp"] = "Ingrese el whatsapp"
	}
	if !f.DayEnabled() {
		problems["date"] = "El dia seleccionado no esta habilitado"
	} else if !f.timeOffered() {
		problems["time"] = "Seleccione un horario"
	}
	return problems
}

func (f *ManualBookingForm) timeOffered() bool {
	for _, t := range f.TimeOptions() {
		if t == f.Time {
			return true
		}
	}
	return false
}

// Build assembles the create-booking request.
func (f *ManualBookingForm) Build() (client.CreateBookingRequest, error) {
	if problems := f.Validate(); len(problems) > 0 {
		return client.CreateBookingRequest{}, errors.New("formulario incompleto")
	}
	return client.CreateBookingRequest{
		ServiceID:        f.ServiceID,
		CustomerName:     strings.TrimSpace(f.CustomerName),
		CustomerEmail:    strings.TrimSpace(f.CustomerEmail),
		CustomerWhatsapp: strings.TrimSpace(f.CustomerWhatsapp),
		CustomerComments: strings.TrimSpace(f.CustomerComments),
		BookingDate:      f.Date.In(f.loc).Format("2006-01-02"),
		BookingTime:      f.Time,
		DurationMinutes:  f.ServiceDuration,
		Amount:           f.ServiceAmount,
	}, nil
}

// Submit sends the booking. Conflicts surface with the occupied-slot message.
func (f *ManualBookingForm) Submit(ctx context.Context, api BookingAPI, notify Notifier) (*client.BookingDTO, error) {
	req, err := f.Build()
	if err != nil {
		return nil, err
	}

	booking, err := api.CreateBooking(ctx, req)
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			notify.Error(MsgSlotTaken)
		} else {
			notify.Error("Error al crear el turno")
		}
		return nil, err
	}
	return booking, nil
}
