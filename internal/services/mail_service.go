package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers notifications to an email address.
type Mailer interface {
	Send(to, subject, body string) error
}

// MailService sends mail over SMTP with implicit TLS.
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewMailService creates a MailService.
func NewMailService(host, port, username, password, from string) *MailService {
	return &MailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a plain-text message to the recipient.
func (s *MailService) Send(to, subject, body string) error {
	if s.host == "" {
		log.Println("[Mail] SMTP host not configured")
		return fmt.Errorf("smtp host not configured")
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", s.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	addr := s.host + ":" + s.port

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		log.Printf("[Mail] Failed to dial %s: %v", addr, err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
