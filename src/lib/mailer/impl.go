package mailer

import (
	"standup/src/config"
	"standup/src/lib"
	awslib "standup/src/lib/aws"
	"standup/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Mailer interface {
	Name() string
	Send(input *lib.SendMailInput) error
}

type SMTPMailer struct{}

func (SMTPMailer) Name() string { return "SMTP" }

func (SMTPMailer) Send(input *lib.SendMailInput) error {
	return lib.SendMail(input)
}

type SESMailer struct{}

func (SESMailer) Name() string { return "SES" }

func (SESMailer) Send(input *lib.SendMailInput) error {
	dest := &sestypes.Destination{ToAddresses: input.To}
	content := &sestypes.Content{Data: aws.String(input.Body)}
	body := &sestypes.Body{Text: content}
	if input.Html {
		body = &sestypes.Body{Html: content}
	}
	msg := &sestypes.Message{
		Subject: &sestypes.Content{Data: aws.String(input.Subject)},
		Body:    body,
	}
	return awslib.SESSendMessage(aws.String(input.From), dest, msg)
}

// CreateMailer returns the SES mailer in production, SMTP otherwise.
func CreateMailer() Mailer {
	env := config.API_ENV
	if env == string(types.Production) || env == string(types.Test) {
		return SESMailer{}
	}
	return SMTPMailer{}
}

// NewMailerMessage sends through the environment's mailer.
func NewMailerMessage(input *lib.SendMailInput) error {
	m := CreateMailer()
	return m.Send(input)
}
