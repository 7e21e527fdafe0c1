package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeTextForMarkdownV2(t *testing.T) {
	assert.Equal(t, `Заявка \#12 \- готово\!`, EscapeTextForMarkdownV2("Заявка #12 - готово!"))
}

func TestService_SendMessage(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	svc := NewServiceWithBase("token", srv.URL)
	require.NoError(t, svc.SendMessage(context.Background(), 77, "a.b"))
	assert.Equal(t, int64(77), got.ChatID)
	assert.Equal(t, `a\.b`, got.Text)
	assert.Equal(t, "MarkdownV2", got.ParseMode)
}

func TestService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := NewServiceWithBase("token", srv.URL).SendMessage(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	assert.Error(t, NewServiceWithBase("", srv.URL).SendMessage(context.Background(), 1, "x"))
}
