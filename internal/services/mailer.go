package services

import (
	"fmt"
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"github.com/campusvault/CampusVault/internal/config"
)

var mailCfg config.Config

// InitMailer stores the SMTP settings used for verification and reset mail.
func InitMailer(cfg config.Config) {
	mailCfg = cfg
}

func sendMail(to, subject, body string) error {
	port, err := strconv.Atoi(mailCfg.SMTPPort)
	if err != nil {
		port = 25
	}
	m := gomail.NewMessage()
	m.SetHeader("From", mailCfg.MailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(mailCfg.SMTPHost, port, mailCfg.SMTPUser, mailCfg.SMTPPass)
	return d.DialAndSend(m)
}

// SendVerificationMail mails the email-verification token to a new account.
func SendVerificationMail(to, token string) error {
	body := fmt.Sprintf("Welcome to CampusVault!\n\nVerify your email with this token: %s\n", token)
	return sendMail(to, "Verify your CampusVault account", body)
}

// SendPasswordResetMail mails a password-reset token.
func SendPasswordResetMail(to, token string) error {
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset token: %s\n\nThe token expires in 30 minutes. Ignore this mail if you did not request it.\n", token)
	return sendMail(to, "CampusVault password reset", body)
}

// SendResetCodeMail mails the 6-digit email half of the two-channel reset.
func SendResetCodeMail(to, code string) error {
	body := fmt.Sprintf("Your CampusVault verification code is: %s\n\nThe code expires in 10 minutes.\n", code)
	return sendMail(to, "CampusVault verification code", body)
}
