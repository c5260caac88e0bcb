// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Receipt struct {
	PackName      string
	Credits       int
	PromptCredits int
	Amount        string
	Reference     string
}

type IEmailService interface {
	SendPurchaseReceipt(toEmail string, r Receipt) error
	Enabled() bool
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

// NewEmailService returns a no-op sender when host is empty.
func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	if host == "" {
		return noopEmailService{}
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) Enabled() bool { return true }

func (s *emailService) SendPurchaseReceipt(toEmail string, r Receipt) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your %s credits are ready", r.PackName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your purchase!</h2>
			<p>We added <strong>%d credits</strong> and <strong>%d prompt wizard credits</strong> to your account.</p>
			<p>Pack: %s<br/>Amount: %s<br/>Reference: %s</p>
			<a href="%s/app" style="background-color: #6C47FF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Start creating</a>
		</div>
	`, r.Credits, r.PromptCredits, r.PackName, r.Amount, r.Reference, s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send receipt to %s: %w", toEmail, err)
	}
	return nil
}

type noopEmailService struct{}

func (noopEmailService) Enabled() bool { return false }

func (noopEmailService) SendPurchaseReceipt(string, Receipt) error { return nil }
