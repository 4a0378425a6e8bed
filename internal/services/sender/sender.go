// Package sender отправляет исходящие письма: коды восстановления пароля
// и отзывы пользователей. Доставка синхронная: если письмо не ушло,
// вызвавшая операция должна завершиться ошибкой.
package sender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/smtp"
)

// SenderService сервис отправки писем через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendResetCode отправляет пользователю код восстановления пароля.
func (s *SenderService) SendResetCode(email, code string) error {
	subject := "Password reset code"
	bodyText := fmt.Sprintf("Your password reset code is %s.\n\nThe code is valid for 10 minutes. If you did not request a reset, ignore this message.", code)
	return s.sendEmail([]string{email}, subject, bodyText)
}

// SendFeedback пересылает отзыв пользователя на служебный ящик.
func (s *SenderService) SendFeedback(name, email, feedback string) error {
	subject := "New feedback from " + name
	bodyText := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, feedback)
	return s.sendEmail([]string{s.transport.GetSMTPUser()}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
