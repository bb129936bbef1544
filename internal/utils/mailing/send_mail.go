package mailing

import (
	"strconv"

	"gopkg.in/gomail.v2"

	"xianshiji/internal/utils"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Sender delivers one HTML message.
type Sender interface {
	Send(toEmail string, subject string, body string) error
}

type SMTPSender struct {
	cfg MailConfig
}

func NewSMTPSender(cfg MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Message(toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	if s.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", s.cfg.SMTPEmail, s.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", s.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}

func (s *SMTPSender) Send(toEmail string, subject string, body string) error {
	port, err := strconv.Atoi(s.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		s.cfg.SMTPHost,
		port,
		s.cfg.SMTPEmail,
		s.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(s.Message(toEmail, subject, body))
}

func SendMail(toEmail string, subject string, body string) error {
	return NewSMTPSender(LoadMailConfig()).Send(toEmail, subject, body)
}
