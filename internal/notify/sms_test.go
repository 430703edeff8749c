package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSClient_Send(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(smsResponse{ResponseCode: 202})
	}))
	defer srv.Close()

	c := NewSMSClient(srv.URL, "key", "CLINIC")
	require.NoError(t, c.SendSMS(context.Background(), "01700000000", "hello"))
	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "CLINIC", got.SenderID)
	assert.Equal(t, "01700000000", got.Number)
}

func TestSMSClient_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(smsResponse{ResponseCode: 1002, ErrorMessage: "bad sender"})
	}))
	defer srv.Close()

	err := NewSMSClient(srv.URL, "key", "X").SendSMS(context.Background(), "1", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad sender")
}

func TestSMSClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	require.Error(t, NewSMSClient(srv.URL, "", "").SendSMS(context.Background(), "1", "m"))
}

func TestAppointmentMessage(t *testing.T) {
	assert.Contains(t, AppointmentMessage("Rina", "APT-000001", "CONFIRMED", "2026-01-02", "10:00"), "confirmed")
	assert.Contains(t, AppointmentMessage("Rina", "APT-000001", "NO_SHOW", "", ""), "NO_SHOW")
}
