package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotification() model.Notification {
	return model.Notification{
		ID:        "n-1",
		ProjectID: "p-1",
		Kind:      model.KindBudget,
		Title:     "Alerta de Orçamento - 80%",
		Message:   "Atenção! Os gastos da obra atingiram 80% do orçamento estimado.",
		CreatedAt: time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifierSend(t *testing.T) {
	var gotBody []byte
	var gotSig, gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature-256")
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "secret123")
	require.NoError(t, n.Send(context.Background(), testNotification()))

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, EventNotificationCreated, payload.Event)
	assert.Equal(t, "n-1", payload.Notification.ID)
	assert.Equal(t, "Obreasy/1.0", gotUA)

	mac := hmac.New(sha256.New, []byte("secret123"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, gotSig)
}

func TestWebhookNotifierSendRead(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "")
	notification := testNotification()
	notification.Read = true
	require.NoError(t, n.SendRead(context.Background(), notification))

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, EventNotificationRead, payload.Event)
	assert.Equal(t, "n-1", payload.Notification.ID)
	assert.True(t, payload.Notification.Read)
}

func TestWebhookNotifierNoSecret(t *testing.T) {
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "")
	require.NoError(t, n.Send(context.Background(), testNotification()))
	assert.Empty(t, gotSig)
}

func TestWebhookNotifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "")
	err := n.Send(context.Background(), testNotification())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "500"))
}
