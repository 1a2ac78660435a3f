// Package mail sends transactional email over SMTP with a fluent builder.
//
//	mail.To(user.Email).
//	    Subject("Your Shopline order is confirmed").
//	    Body(html).
//	    Send()
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/nikhilverma/shopline/config"
)

// SMTP holds connection credentials, populated from the environment.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func defaultSMTP() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "orders@shopline.dev"),
		FromName: config.Get("MAIL_FROM_NAME", "Shopline"),
	}
}

// Message is a fluent email builder.
type Message struct {
	to      []string
	bcc     []string
	subject string
	body    string
	isHTML  bool
	cfg     SMTP
}

// To starts a message addressed to the given recipients.
func To(addresses ...string) *Message {
	return &Message{to: addresses, isHTML: true, cfg: defaultSMTP()}
}

// BCC adds blind-copy recipients.
func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// Template renders an html/template file with data as the body.
func (m *Message) Template(path string, data interface{}) *Message {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		m.body = fmt.Sprintf("<!-- template error: %v -->", err)
		return m
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		m.body = fmt.Sprintf("<!-- render error: %v -->", err)
		return m
	}
	m.body = buf.String()
	m.isHTML = true
	return m
}

// UseConfig overrides SMTP settings for this message.
func (m *Message) UseConfig(cfg SMTP) *Message {
	m.cfg = cfg
	return m
}

// Send delivers the message. Port 465 uses implicit TLS, everything else
// goes through STARTTLS via smtp.SendMail.
func (m *Message) Send() error {
	if m.cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	rcpts := append(append([]string{}, m.to...), m.bcc...)
	raw := m.raw(from)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if m.cfg.Port == "465" {
		return m.sendTLS(addr, auth, rcpts, raw)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, rcpts, raw)
}

func (m *Message) sendTLS(addr string, auth smtp.Auth, rcpts []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	for _, r := range rcpts {
		if err := client.Rcpt(r); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

func (m *Message) raw(from string) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
