package mailer

import "embed"

const (
	FromName                  = "Dermobeauty"
	maxRetries                = 3
	BookingConfirmedTemplate  = "booking_confirmed.tmpl"
	BookingCancelledTemplate  = "booking_cancelled.tmpl"
	BookingRescheduleTemplate = "booking_rescheduled.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
