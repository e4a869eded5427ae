package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

const disasterAlertTemplate = `
<h2>{{.Severity}} severity {{.Type}}: {{.Title}}</h2>
<p>{{.Description}}</p>
<ul>
	<li><strong>Location:</strong> {{.LocationName}} ({{printf "%.4f" .Latitude}}, {{printf "%.4f" .Longitude}})</li>
	<li><strong>Affected radius:</strong> {{printf "%.1f" .RadiusKm}} km</li>
	<li><strong>Status:</strong> {{.Status}}</li>
	<li><strong>Reported:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</li>
</ul>
<p>Follow official channels for evacuation notices and relief schedules.</p>
`

// AlertEmailService sends disaster alert emails through SendGrid.
type AlertEmailService struct {
	config     configs.AlertsConfig
	logger     *logrus.Logger
	client     *sendgrid.Client
	alertTmpl  *template.Template
	recipients []string
}

// NewAlertEmailService creates a new alert email service instance.
func NewAlertEmailService(config configs.AlertsConfig, logger *logrus.Logger) (ports.AlertService, error) {
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	tmpl, err := template.New("disaster_alert").Parse(disasterAlertTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert template: %w", err)
	}

	return &AlertEmailService{
		config:     config,
		logger:     logger,
		client:     client,
		alertTmpl:  tmpl,
		recipients: config.Recipients,
	}, nil
}

// SendDisasterAlert notifies every configured recipient about a disaster.
// Delivery failures are logged per recipient; the first one is returned so
// callers can count failed sends.
func (a *AlertEmailService) SendDisasterAlert(ctx context.Context, d *disaster.Disaster) error {
	if len(a.recipients) == 0 {
		a.logger.Debug("No alert recipients configured, skipping disaster alert")
		return nil
	}

	var buf bytes.Buffer
	if err := a.alertTmpl.Execute(&buf, d); err != nil {
		return fmt.Errorf("failed to render alert template: %w", err)
	}

	subject := fmt.Sprintf("[%s] %s alert: %s",
		strings.ToUpper(string(d.Severity)), d.Type, d.Title)

	var firstErr error
	for _, recipient := range a.recipients {
		if err := a.sendEmail(recipient, subject, buf.String()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sendEmail sends an email using SendGrid
func (a *AlertEmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(a.config.FromName, a.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := a.client.Send(message)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send alert email")
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Alert email sent")

	return nil
}
