package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/gestorpro/gestorpro/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendActivationMail sends the account activation link after registration.
func SendActivationMail(to string, name string, token string) error {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", base, token)

	subject := "Ative sua conta GestorPro"
	body := fmt.Sprintf(
		"<p>Olá %s,</p>"+
			"<p>Sua conta no GestorPro foi criada. Clique no link abaixo para ativá-la:</p>"+
			`<p><a href="%s">Ativar conta</a></p>`+
			"<p>Se você não criou esta conta, ignore este e-mail.</p>",
		name, link,
	)
	return SendMail(to, subject, body)
}

// SendPlanChangedMail notifies a user after a payment upgraded their plan.
func SendPlanChangedMail(to string, name string, planName string) error {
	subject := "Seu plano GestorPro foi atualizado"
	body := fmt.Sprintf(
		"<p>Olá %s,</p>"+
			"<p>Seu pagamento foi confirmado e seu plano agora é <strong>%s</strong>.</p>"+
			"<p>Bom trabalho!</p>",
		name, planName,
	)
	return SendMail(to, subject, body)
}
