// Package email delivers subscription lifecycle mail over SMTP. Sends are
// fire-and-forget from the caller's perspective; a failed send is logged
// and never fails a state transition.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	subUC "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type SMTPNotifier struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
	logger      logger.Interface
}

func NewSMTPNotifier(cfg *config.EmailConfig, logger logger.Interface) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}
}

var _ subUC.Notifier = (*SMTPNotifier)(nil)

func (n *SMTPNotifier) SendExpiryWarning(ctx context.Context, email, name, planName string, daysLeft int) error {
	day := "days"
	if daysLeft == 1 {
		day = "day"
	}
	subject := fmt.Sprintf("Your %s plan expires in %d %s", planName, daysLeft, day)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Your plan is about to expire</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> plan expires in %d %s. Renew now to keep
			your monthly credits and image allowance.</p>
		</body>
		</html>
	`, name, planName, daysLeft, day)

	return n.send(email, subject, htmlBody)
}

func (n *SMTPNotifier) SendSubscriptionActivated(ctx context.Context, email, name, planName string) error {
	subject := fmt.Sprintf("Welcome to the %s plan", planName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription active</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> plan is now active and your credits have
			been topped up. Happy generating!</p>
		</body>
		</html>
	`, name, planName)

	return n.send(email, subject, htmlBody)
}

func (n *SMTPNotifier) SendSubscriptionCancelled(ctx context.Context, email, name, planName string) error {
	subject := fmt.Sprintf("Your %s plan has been cancelled", planName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription cancelled</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> plan has been cancelled. Your account is
			back on the free tier; you can resubscribe at any time.</p>
		</body>
		</html>
	`, name, planName)

	return n.send(email, subject, htmlBody)
}

func (n *SMTPNotifier) SendPaymentFailed(ctx context.Context, email, name, planName string) error {
	subject := fmt.Sprintf("Payment failed for your %s plan", planName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment failed</h2>
			<p>Hi %s,</p>
			<p>The renewal payment for your <strong>%s</strong> plan did not go
			through. Please update your payment method to keep your plan active.</p>
		</body>
		</html>
	`, name, planName)

	return n.send(email, subject, htmlBody)
}

func (n *SMTPNotifier) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.fromAddress, n.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Warnw("failed to send email", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Debugw("email sent", "to", to, "subject", subject)
	return nil
}
