package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"go.uber.org/zap"
)

// fieldLabels maps change-set keys to the wording guests see.
var fieldLabels = map[string]string{
	"room_id":            "Room type",
	"individual_room_id": "Room",
	"guest_name":         "Guest name",
	"guest_email":        "Email",
	"guest_phone":        "Phone",
	"guest_country":      "Country",
	"check_in_date":      "Check-in",
	"check_out_date":     "Check-out",
	"number_of_nights":   "Nights",
	"number_of_guests":   "Guests",
	"adult_guests":       "Adults",
	"child_guests":       "Children",
	"occupancy_type":     "Occupancy",
	"total_amount":       "Total",
	"status":             "Status",
	"special_requests":   "Special requests",
}

func fieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func displayValue(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// EmailNotifier mails the guest a summary of the changed booking fields.
type EmailNotifier struct {
	smtp     utils.SMTPConfig
	settings SettingsProvider
	send     func(utils.SMTPConfig, utils.EmailMessage, *zap.Logger) error
	logger   *zap.Logger
}

func NewEmailNotifier(cfg utils.SMTPConfig, settings SettingsProvider, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{smtp: cfg, settings: settings, send: utils.SendEmail, logger: logger}
}

func (n *EmailNotifier) NotifyBookingModified(ctx context.Context, b *models.Booking, changes ChangeSet) error {
	if !parseBool(n.settings.Get(ctx, models.SettingEmailNotifications, "1")) {
		return ErrNotificationSkipped
	}
	if strings.TrimSpace(b.GuestEmail) == "" {
		return fmt.Errorf("booking %s has no guest email", b.BookingReference)
	}
	site := n.settings.Get(ctx, models.SettingSiteName, "Hotel")
	return n.send(n.smtp, BookingModifiedEmail(site, b, changes), n.logger)
}

// BookingModifiedEmail renders the booking change email.
func BookingModifiedEmail(site string, b *models.Booking, changes ChangeSet) utils.EmailMessage {
	var plain, rows strings.Builder
	for _, f := range changes.Fields() {
		c := changes[f]
		fmt.Fprintf(&plain, "- %s: %s -> %s\n", fieldLabel(f), displayValue(c.Old), displayValue(c.New))
		fmt.Fprintf(&rows, "<tr><td style=\"padding:4px 8px;\">%s</td><td style=\"padding:4px 8px;color:#888;\">%s</td><td style=\"padding:4px 8px;\"><strong>%s</strong></td></tr>",
			html.EscapeString(fieldLabel(f)), html.EscapeString(displayValue(c.Old)), html.EscapeString(displayValue(c.New)))
	}

	subject := fmt.Sprintf("%s - Your booking %s has been updated", site, b.BookingReference)
	plainBody := fmt.Sprintf(`Hello %s,

Your booking %s at %s has been updated.

%s
Stay: %s to %s (%d nights)
Total: %s

If you did not expect this change, please contact us.
`, b.GuestName, b.BookingReference, site, plain.String(),
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout), b.NumberOfNights,
		b.TotalAmount.StringFixed(2))

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.5;">
    <h2>Your booking has been updated</h2>
    <p>Hello %s,</p>
    <p>Your booking <strong>%s</strong> at %s has been updated.</p>
    <table style="border-collapse:collapse;">
      <tr><th align="left">Field</th><th align="left">Before</th><th align="left">Now</th></tr>
      %s
    </table>
    <p>Stay: %s to %s (%d nights)<br>Total: %s</p>
    <p style="color:#666;font-size:12px;">If you did not expect this change, please contact us.</p>
  </body>
</html>`,
		html.EscapeString(b.GuestName), html.EscapeString(b.BookingReference), html.EscapeString(site), rows.String(),
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout), b.NumberOfNights,
		b.TotalAmount.StringFixed(2))

	return utils.EmailMessage{To: b.GuestEmail, Subject: subject, PlainBody: plainBody, HTMLBody: htmlBody}
}

// TextSender delivers a plain text message to a phone number.
type TextSender interface {
	SendText(ctx context.Context, to, body string) error
}

// WhatsAppNotifier messages the guest's phone when WhatsApp is switched on
// in site settings. Bookings without a phone number are skipped.
type WhatsAppNotifier struct {
	client   TextSender
	settings SettingsProvider
}

func NewWhatsAppNotifier(client TextSender, settings SettingsProvider) *WhatsAppNotifier {
	return &WhatsAppNotifier{client: client, settings: settings}
}

func (n *WhatsAppNotifier) NotifyBookingModified(ctx context.Context, b *models.Booking, changes ChangeSet) error {
	if !parseBool(n.settings.Get(ctx, models.SettingWhatsAppEnabled, "0")) {
		return ErrNotificationSkipped
	}
	if utils.NormalizePhone(b.GuestPhone) == "" {
		return ErrNotificationSkipped
	}
	site := n.settings.Get(ctx, models.SettingSiteName, "Hotel")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: booking %s was updated.\n", site, b.BookingReference)
	for _, f := range changes.Fields() {
		fmt.Fprintf(&sb, "%s: %s\n", fieldLabel(f), displayValue(changes[f].New))
	}
	return n.client.SendText(ctx, b.GuestPhone, strings.TrimSpace(sb.String()))
}

// MultiNotifier fans out to every channel and reports all failures. It
// returns ErrNotificationSkipped only when no channel attempted a send.
type MultiNotifier []BookingNotifier

func (m MultiNotifier) NotifyBookingModified(ctx context.Context, b *models.Booking, changes ChangeSet) error {
	var errs []error
	attempted := false
	for _, n := range m {
		err := n.NotifyBookingModified(ctx, b, changes)
		if errors.Is(err, ErrNotificationSkipped) {
			continue
		}
		attempted = true
		if err != nil {
			errs = append(errs, err)
		}
	}
	if !attempted {
		return ErrNotificationSkipped
	}
	return errors.Join(errs...)
}
