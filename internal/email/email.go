package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"prestige-rentals/internal/config"
)

// Sender delivers transactional mail over SMTP. Sends are best-effort from
// the caller's point of view: a failed confirmation must never unwind a
// committed booking.
type Sender struct {
	cfg config.EmailConfig
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) send(toEmail, subject, htmlBody string) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.SMTPUsername))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", toEmail))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(addr, auth, s.cfg.SMTPUsername, []string{toEmail}, []byte(msg.String()))
}

// SendBookingConfirmation mails the booking reference together with the QR
// code the customer presents at pickup. qrImageSrc is a data:image/png
// base64 URI, embeddable directly in the img tag.
func (s *Sender) SendBookingConfirmation(toEmail, bookingReference, qrImageSrc string) error {
	subject := "Your Booking Confirmation - Prestige Rentals"

	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2 style="text-align: center;">Booking Confirmed</h2>
  <p style="text-align: center;">
    Your booking reference is:<br/>
    <strong style="font-size: 20px;">%s</strong>
  </p>
  <p style="text-align: center;">Please scan the QR code below at the vehicle pickup location:</p>
  <div style="text-align: center; margin: 20px 0;">
    <img src="%s" alt="QR Code" style="width: 200px;" />
  </div>
  <p style="font-size: 12px; text-align: center;">
    Do not share this code with anyone. It grants access to your booking.
  </p>
</div>`, bookingReference, qrImageSrc)

	return s.send(toEmail, subject, body)
}

// SendReviewRequest asks the customer to review a finished rental.
func (s *Sender) SendReviewRequest(toEmail, vehicleName string, orderID int64) error {
	subject := "How was your rental? - Prestige Rentals"

	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2 style="text-align: center;">Tell us about your %s</h2>
  <p style="text-align: center;">
    Your rental has ended. We would love to hear how it went - it only takes
    a minute to leave a review for order #%d.
  </p>
  <p style="font-size: 12px; text-align: center;">
    Thank you for choosing Prestige Rentals!
  </p>
</div>`, vehicleName, orderID)

	return s.send(toEmail, subject, body)
}
