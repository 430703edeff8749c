package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// SMSClient talks to a JSON over HTTP SMS gateway.
type SMSClient struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
}

func NewSMSClient(baseURL, apiKey, senderID string) *SMSClient {
	return &SMSClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		senderID: senderID,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type smsRequest struct {
	APIKey   string `json:"api_key"`
	SenderID string `json:"senderid"`
	Number   string `json:"number"`
	Message  string `json:"message"`
}

type smsResponse struct {
	ResponseCode int    `json:"response_code"`
	ErrorMessage string `json:"error_message"`
}

func (c *SMSClient) SendSMS(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(smsRequest{
		APIKey:   c.apiKey,
		SenderID: c.senderID,
		Number:   phone,
		Message:  message,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway status: %d", resp.StatusCode)
	}

	var out smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	// 202 is the gateway's "accepted" code.
	if out.ResponseCode != 0 && out.ResponseCode != http.StatusAccepted {
		return fmt.Errorf("sms gateway rejected: %d %s", out.ResponseCode, out.ErrorMessage)
	}
	return nil
}

type NopSMS struct{}

func (NopSMS) SendSMS(context.Context, string, string) error { return nil }

// AppointmentMessage renders the text sent when an appointment changes status.
func AppointmentMessage(patient, serial, status, date, slot string) string {
	switch status {
	case "CONFIRMED":
		return fmt.Sprintf("Dear %s, your appointment %s on %s %s is confirmed.", patient, serial, date, slot)
	case "CANCELLED":
		return fmt.Sprintf("Dear %s, your appointment %s on %s has been cancelled.", patient, serial, date)
	case "COMPLETED":
		return fmt.Sprintf("Dear %s, thank you for visiting us. Appointment %s is completed.", patient, serial)
	default:
		return fmt.Sprintf("Dear %s, your appointment %s status is now %s.", patient, serial, status)
	}
}
