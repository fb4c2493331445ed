package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifierSend(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, "#obras")
	require.NoError(t, n.Send(context.Background(), testNotification()))

	var payload slackPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "#obras", payload.Channel)
	require.Len(t, payload.Attachments, 1)

	att := payload.Attachments[0]
	assert.Equal(t, "Alerta de Orçamento - 80%", att.Title)
	assert.Equal(t, "#ff9900", att.Color)
	assert.Equal(t, "Obreasy", att.Footer)
}

func TestSlackNotifierKindColors(t *testing.T) {
	tests := []struct {
		kind model.NotificationKind
		want string
	}{
		{model.KindBudget, "#ff9900"},
		{model.KindDeadline, "#ff0000"},
		{model.KindPayment, "#3aa3e3"},
	}

	for _, tt := range tests {
		var payload slackPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &payload)
			w.WriteHeader(http.StatusOK)
		}))

		n := NewSlackNotifier(srv.URL, "")
		notification := testNotification()
		notification.Kind = tt.kind
		require.NoError(t, n.Send(context.Background(), notification))
		srv.Close()

		require.Len(t, payload.Attachments, 1)
		assert.Equal(t, tt.want, payload.Attachments[0].Color, "kind %s", tt.kind)
	}
}

func TestSlackNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, "")
	assert.Error(t, n.Send(context.Background(), testNotification()))
}
