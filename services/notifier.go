package services

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Messenger delivers a text message and reports the channel it used.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// Enabled reports whether credentials and at least one sender number are present.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && (c.PhoneNumber != "" || c.WhatsAppNumber != "")
}

type TwilioMessenger struct {
	client *twilio.RestClient
	cfg    TwilioConfig
}

func NewTwilioMessenger(cfg TwilioConfig) *TwilioMessenger {
	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		cfg: cfg,
	}
}

// Send uses WhatsApp when the number is in E.164 form and a WhatsApp sender is configured,
// plain SMS otherwise.
func (m *TwilioMessenger) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	channel := ChannelSMS
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	if strings.HasPrefix(to, "+") && m.cfg.WhatsAppNumber != "" {
		channel = ChannelWhatsApp
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + m.cfg.WhatsAppNumber)
	} else {
		if m.cfg.PhoneNumber == "" {
			return channel, errors.New("twilio: no SMS sender number configured")
		}
		params.SetTo(to)
		params.SetFrom(m.cfg.PhoneNumber)
	}

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return channel, err
	}
	if resp.Sid == nil {
		return channel, errors.New("twilio: no message SID returned")
	}
	return channel, nil
}
