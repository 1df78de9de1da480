package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"stayhub/config"
	"stayhub/internal/models"
	"stayhub/internal/repository"
	"stayhub/pkg/receipt"
)

// EmailService sends transactional mail over SMTP. Failures are logged and
// never propagated; a missing SMTP host disables sending entirely.
type EmailService struct {
	cfg      *config.SMTPConfig
	userRepo *repository.UserRepository
}

func NewEmailService(cfg *config.SMTPConfig, userRepo *repository.UserRepository) *EmailService {
	if cfg == nil || cfg.Host == "" {
		return nil
	}
	return &EmailService{cfg: cfg, userRepo: userRepo}
}

// SendBookingConfirmation emails the requester their confirmation with a PDF
// receipt attached.
func (s *EmailService) SendBookingConfirmation(b *models.Booking) {
	if s == nil {
		return
	}
	u, err := s.userRepo.GetByID(b.RequesterID)
	if err != nil || u.Email == "" {
		return
	}
	html := fmt.Sprintf(
		"<h2>Booking confirmed</h2><p>Your booking is confirmed.</p><p><b>Ticket:</b> %s<br><b>Amount:</b> %s</p>",
		b.Ticket, formatCents(b.GrossAmountCents))
	pdf, err := receipt.Render(b)
	if err != nil {
		log.Printf("[email] rendering receipt for %s: %v", b.Ticket, err)
		pdf = nil
	}
	s.send(u.Email, "Your booking is confirmed", html, "receipt-"+b.Ticket+".pdf", pdf)
}

func (s *EmailService) send(to, subject, html, attachName string, attachment []byte) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	part, err := w.CreatePart(hdr)
	if err == nil {
		_, _ = part.Write([]byte(html))
	}
	if attachment != nil {
		hdr = textproto.MIMEHeader{}
		hdr.Set("Content-Type", "application/pdf")
		hdr.Set("Content-Transfer-Encoding", "base64")
		hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachName))
		part, err = w.CreatePart(hdr)
		if err == nil {
			_, _ = part.Write([]byte(base64.StdEncoding.EncodeToString(attachment)))
		}
	}
	_ = w.Close()

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, buf.Bytes()); err != nil {
		log.Printf("[email] sending to %s: %v", to, err)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
