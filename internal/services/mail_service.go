package services

import (
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host      string
	Port      string
	Username  string
	Password  string
	From      string
	ContactTo string
	Enabled   bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	contactTo := os.Getenv("CONTACT_EMAIL")
	if contactTo == "" {
		contactTo = from
	}

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:      host,
		Port:      port,
		Username:  user,
		Password:  pass,
		From:      from,
		ContactTo: contactTo,
		Enabled:   enabled,
	}
}

// sendAsync delivers in a goroutine; mail failing or succeeding never
// blocks the request that triggered it.
func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Suurdle <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		}
	}()
}

// SendPasswordResetEmail mails the reset link for a /forgot request.
func (s *MailService) SendPasswordResetEmail(email, resetLink string) {
	body := fmt.Sprintf(`<p>You are receiving this because you (or someone else) have requested the reset of the password for your account.</p>
<p>Please click on the following link, or paste it into your browser to complete the process:</p>
<p><a href="%s">%s</a></p>
<p>If you did not request this, please ignore this email and your password will remain unchanged.</p>`,
		resetLink, resetLink)
	s.sendAsync([]string{email}, "Suurdle Password Reset", body)
}

// SendPasswordChangedEmail confirms a completed reset.
func (s *MailService) SendPasswordChangedEmail(email string) {
	body := fmt.Sprintf(`<p>Hello,</p>
<p>This is a confirmation that the password for your account %s has just been changed.</p>`,
		template.HTMLEscapeString(email))
	s.sendAsync([]string{email}, "Your password has been changed", body)
}

// SendContactEmail forwards a contact-form message to the site address.
func (s *MailService) SendContactEmail(name, email, message string) {
	body := fmt.Sprintf(`<h4>User: %s. Email: %s</h4>
<p>%s</p>`,
		template.HTMLEscapeString(name),
		template.HTMLEscapeString(email),
		template.HTMLEscapeString(message))
	s.sendAsync([]string{s.ContactTo}, "Suurdle Contact Form from "+name, body)
}
