// Package notify sends signup confirmations to students.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers a confirmation for a completed signup.
type Notifier interface {
	SignupConfirmed(ctx context.Context, activity, schedule, email string) error
}

// Noop sends nothing.
type Noop struct{}

func (Noop) SignupConfirmed(context.Context, string, string, string) error { return nil }

// Mailer is the part of the SES wrapper used here.
type Mailer interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SESNotifier emails the student through Amazon SES.
type SESNotifier struct {
	mailer    Mailer
	fromEmail string
}

func NewSESNotifier(mailer Mailer, fromEmail string) *SESNotifier {
	return &SESNotifier{mailer: mailer, fromEmail: fromEmail}
}

func (n *SESNotifier) SignupConfirmed(ctx context.Context, activity, schedule, email string) error {
	subject := fmt.Sprintf("You're signed up for %s", activity)
	body := fmt.Sprintf("Hello,\n\nYou are now registered for %s.\nSchedule: %s\n\nMergington High School", activity, schedule)

	_, err := n.mailer.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.fromEmail),
		Destination: &types.Destination{ToAddresses: []string{email}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send confirmation to %s: %w", email, err)
	}
	return nil
}
