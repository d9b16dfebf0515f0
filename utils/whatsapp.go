package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultWhatsAppBaseURL = "https://graph.facebook.com/v19.0"

// WhatsAppClient sends text messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	http          *resty.Client
	phoneNumberID string
}

func NewWhatsAppClient(baseURL, phoneNumberID, token string, timeout time.Duration) *WhatsAppClient {
	if baseURL == "" {
		baseURL = DefaultWhatsAppBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &WhatsAppClient{http: c, phoneNumberID: phoneNumberID}
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

// NormalizePhone strips everything but digits, the form the API expects.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *WhatsAppClient) SendText(ctx context.Context, to, body string) error {
	to = NormalizePhone(to)
	if to == "" {
		return fmt.Errorf("whatsapp recipient has no phone number")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(whatsAppMessage{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             whatsAppText{Body: body},
		}).
		Post("/" + c.phoneNumberID + "/messages")
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
