package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDeletionOTP(toEmail, otp string) error
	SendSubscriptionExpired(toEmail, fullName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendDeletionOTP(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Confirme a exclusao da sua conta")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Exclusao de conta</h2>
			<p>Use o codigo abaixo para confirmar a exclusao da sua conta SouArtista:</p>
			<h1 style="color: #E53935; letter-spacing: 5px;">%s</h1>
			<p>Este codigo expira em 15 minutos.</p>
			<p>Se voce nao solicitou a exclusao, ignore este email.</p>
		</div>
	`, otp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send deletion OTP to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Deletion OTP sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendSubscriptionExpired(toEmail, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Sua assinatura expirou")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Ola, %s</h2>
			<p>Sua assinatura SouArtista expirou e seu acesso premium foi suspenso.</p>
			<p>Renove pelo aplicativo para continuar usando todos os recursos.</p>
		</div>
	`, fullName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send expiry notice to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
