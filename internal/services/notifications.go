package services

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/models"
)

// Notifier delivers SMS/email through an external gateway. When no gateway
// URL is configured delivery is disabled and calls log and return nil.
type Notifier struct {
	client *resty.Client
	url    string
	key    string
	log    *zap.Logger
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewNotifier(url, key string, log *zap.Logger) *Notifier {
	return &Notifier{
		client: resty.New(),
		url:    url,
		key:    key,
		log:    log,
	}
}

// SendAppointmentReminder notifies the patient about an upcoming appointment.
func (n *Notifier) SendAppointmentReminder(ctx context.Context, patient *models.Patient, apt *models.Appointment) error {
	message := fmt.Sprintf(
		"Appointment reminder for %s: %s at %s (status: %s).",
		patient.Name,
		apt.Date.Format("Jan 2, 2006"),
		apt.Time,
		apt.Status,
	)
	return n.deliver(ctx, patient.Phone, message)
}

// SendPasswordReset hands the reset token to the gateway. Runs in the
// background so the login flow never blocks on delivery.
func (n *Notifier) SendPasswordReset(email, token string) {
	message := fmt.Sprintf("Your password reset code is %s. It expires in one hour.", token)
	go func() {
		if err := n.deliver(context.Background(), email, message); err != nil {
			n.log.Warn("password reset delivery failed", zap.String("email", email), zap.Error(err))
		}
	}()
}

func (n *Notifier) deliver(ctx context.Context, recipient, message string) error {
	if n.url == "" {
		n.log.Info("notification delivery disabled, dropping message",
			zap.String("recipient", recipient))
		return nil
	}

	var result gatewayResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"to":      recipient,
			"message": message,
			"key":     n.key,
		}).
		SetResult(&result).
		Post(n.url)
	if err != nil {
		return err
	}
	if resp.IsError() || !result.Success {
		return fmt.Errorf("notification gateway rejected message: %s", result.Error)
	}
	n.log.Info("notification delivered", zap.String("recipient", recipient))
	return nil
}
