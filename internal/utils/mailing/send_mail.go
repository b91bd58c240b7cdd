package mailing

import (
	"strconv"

	"Pointspin-Backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	SMTPHost         string
	SMTPPort         int
	SMTPSenderName   string
	SMTPAuthEmail    string
	SMTPAuthPassword string
}

func LoadMailConfig() (*MailConfig, error) {
	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return nil, err
	}

	return &MailConfig{
		SMTPHost:         utils.GetConfig("SMTP_HOST"),
		SMTPPort:         port,
		SMTPSenderName:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPAuthEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPAuthPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}, nil
}

func SendMail(toEmail string, subject string, body string) error {
	config, err := LoadMailConfig()
	if err != nil {
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", config.SMTPSenderName)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(
		config.SMTPHost,
		config.SMTPPort,
		config.SMTPAuthEmail,
		config.SMTPAuthPassword,
	)

	return dialer.DialAndSend(mailer)
}
