package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tuannvm/formrelay/internal/models"
)

func TestFormatMessage(t *testing.T) {
	report := models.Report{
		Title: "Contact Form",
		Answers: []models.AnswerPair{
			{Label: "Name", Value: "Jane Doe"},
			{Label: "Attachment 1", Value: "https://files.jotform.com/jufs/u1/photo.jpg"},
		},
	}

	want := "*Contact Form*\n• Name: Jane Doe\n• Attachment 1: https://files.jotform.com/jufs/u1/photo.jpg"
	assert.Equal(t, want, FormatMessage(report))
}

func TestFormatMessageWithoutTitle(t *testing.T) {
	report := models.Report{Answers: []models.AnswerPair{{Label: "A", Value: "1"}}}
	assert.Equal(t, "• A: 1", FormatMessage(report))
	assert.Equal(t, "", FormatMessage(models.Report{}))
}

func TestNewNotifierRequiresURL(t *testing.T) {
	_, err := NewNotifier("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	notifier, err := NewNotifier(server.URL)
	require.NoError(t, err)

	err = notifier.Send(context.Background(), models.Report{Title: "T", Answers: []models.AnswerPair{{Label: "A", Value: "1"}}})
	require.NoError(t, err)
	assert.Equal(t, "*T*\n• A: 1", gjson.GetBytes(body, "text").String())
}

func TestSendNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	notifier, err := NewNotifier(server.URL)
	require.NoError(t, err)

	assert.Error(t, notifier.Send(context.Background(), models.Report{Title: "T"}))
	assert.Equal(t, "slack", notifier.Name())
}
