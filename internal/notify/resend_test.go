package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emailBody struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func TestResendSend(t *testing.T) {
	var got emailBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_testkey", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	tr := NewResendTransport("re_testkey", srv.URL, time.Second)
	res, err := tr.Send(context.Background(), Message{
		From:    "Investment Tracker <onboarding@resend.dev>",
		To:      []string{"me@example.com"},
		Subject: "subject",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", res.ID)
	assert.Equal(t, "Investment Tracker <onboarding@resend.dev>", got.From)
	assert.Equal(t, []string{"me@example.com"}, got.To)
	assert.Equal(t, "subject", got.Subject)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestResendErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field."}`))
	}))
	defer srv.Close()

	tr := NewResendTransport("re_testkey", srv.URL, time.Second)
	_, err := tr.Send(context.Background(), Message{From: "a@example.com", To: []string{"b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid to field.")
}

func TestResendErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewResendTransport("re_testkey", srv.URL, time.Second)
	_, err := tr.Send(context.Background(), Message{})
	assert.Error(t, err)
}

func TestResendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := NewResendTransport("re_testkey", srv.URL, 20*time.Millisecond)
	_, err := tr.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}})
	assert.Error(t, err)
}
