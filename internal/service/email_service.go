package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vocadrill/internal/drill"
	"vocadrill/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		if debug {
			log.Println("[DEBUG] Email service will skip sending all emails")
		}
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to VocaDrill!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>Welcome to VocaDrill!</h1>
		<p>Hi %s,</p>
		<p>Thanks for creating your VocaDrill account. You can now build study plans, add vocabulary flashcards, and drill them in five different modes.</p>
		<p><a href="%s/login">Get started</a></p>
		<p style="font-size: 12px; color: #666;">This is an automated email from VocaDrill. Please do not reply.</p>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thanks for creating your VocaDrill account. You can now build study plans, add vocabulary flashcards, and drill them in five different modes.

Get started: %s/login

---
This is an automated email from VocaDrill. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendTestReportEmail sends a summary of a completed test to the user
func (s *EmailService) SendTestReportEmail(ctx context.Context, toEmail, toName, planName string, summary drill.TestSummary, result *models.TestResult) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): test report to %s", toEmail)
		return nil
	}

	var phaseLines strings.Builder
	var phaseRows strings.Builder
	for _, p := range summary.Phases {
		phaseLines.WriteString(fmt.Sprintf("- %s: %d/%d (%.0f%%)\n", p.Phase, p.Correct, p.Total, p.Percentage))
		phaseRows.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d/%d</td><td>%.0f%%</td></tr>", p.Phase, p.Correct, p.Total, p.Percentage))
	}

	subject := fmt.Sprintf("Your test result for %s: %s", planName, summary.Grade)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>Test Report: %s</h1>
		<p>Hi %s,</p>
		<p>You scored <strong>%.1f%%</strong> (%d of %d), grade <strong>%s</strong>.</p>
		<table border="1" cellpadding="6" cellspacing="0">
			<tr><th>Phase</th><th>Correct</th><th>Score</th></tr>
			%s
		</table>
		<p>Strongest area: %s<br>Weakest area: %s</p>
		<p style="font-size: 12px; color: #666;">This is an automated email from VocaDrill. Please do not reply.</p>
	</div>
</body>
</html>
`, planName, toName, summary.OverallScore, summary.TotalCorrect, summary.TotalItems, summary.Grade,
		phaseRows.String(), summary.Strongest, summary.Weakest)

	textBody := fmt.Sprintf(`Hi %s,

Your test result for %s: %.1f%% (%d of %d), grade %s.

%s
Strongest area: %s
Weakest area: %s

---
This is an automated email from VocaDrill. Please do not reply.
`, toName, planName, summary.OverallScore, summary.TotalCorrect, summary.TotalItems, summary.Grade,
		phaseLines.String(), summary.Strongest, summary.Weakest)

	if s.debug {
		log.Printf("[DEBUG] Sending test report email: to=%s, grade=%s", toEmail, result.Grade)
	}

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
