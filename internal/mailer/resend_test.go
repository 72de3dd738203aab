package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResendClientSend(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad body: %v", err)
		}
		json.NewEncoder(w).Encode(resendResponse{ID: "email_123"})
	}))
	defer srv.Close()

	c := NewResendClient("key", "CreatorPulse <n@resend.dev>")
	c.endpoint = srv.URL
	c.httpClient = srv.Client()

	res, err := c.Send(context.Background(), []string{"a@x.com", "b@x.com"}, "Subject", "<p>hi</p>", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if res.ID != "email_123" || res.Recipients != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got.From != "CreatorPulse <n@resend.dev>" || len(got.To) != 2 || got.HTML != "<p>hi</p>" || got.Text != "hi" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestResendClientSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewResendClient("key", "")
	c.endpoint = srv.URL
	c.httpClient = srv.Client()

	_, err := c.Send(context.Background(), []string{"a@x.com"}, "s", "<p></p>", "")
	if err == nil {
		t.Fatal("expected error on 422")
	}
	if !strings.Contains(err.Error(), "status 422") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestResendClientValidation(t *testing.T) {
	noKey := NewResendClient("", "")
	if _, err := noKey.Send(context.Background(), []string{"a@x.com"}, "s", "h", ""); err == nil {
		t.Fatal("expected error without API key")
	}

	c := NewResendClient("key", "")
	if _, err := c.Send(context.Background(), nil, "s", "h", ""); err == nil {
		t.Fatal("expected error without recipients")
	}
}
