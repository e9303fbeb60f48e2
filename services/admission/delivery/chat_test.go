package delivery

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmb/domain"
)

type echoChatUC struct{}

func (echoChatUC) Ask(ctx context.Context, req *domain.ChatRequest) string {
	return "jawaban untuk: " + req.Message
}

func newChatTestApp() *fiber.App {
	app := fiber.New()
	NewChatDelivery(app, echoChatUC{})
	return app
}

func TestChatAskReturnsReply(t *testing.T) {
	app := newChatTestApp()

	resp, body := doJSON(t, app, http.MethodPost, "/chat/ask", map[string]any{
		"message": "Apa saja ekstrakurikulernya?",
		"history": []map[string]string{
			{"role": "user", "text": "Halo"},
			{"role": "model", "text": "Halo, ada yang bisa dibantu?"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jawaban untuk: Apa saja ekstrakurikulernya?", body["reply"])
}

func TestChatAskRejectsEmptyMessage(t *testing.T) {
	app := newChatTestApp()

	resp, _ := doJSON(t, app, http.MethodPost, "/chat/ask", map[string]any{
		"message": "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatAskRejectsBadRole(t *testing.T) {
	app := newChatTestApp()

	resp, _ := doJSON(t, app, http.MethodPost, "/chat/ask", map[string]any{
		"message": "Halo",
		"history": []map[string]string{
			{"role": "system", "text": "bukan peran yang dikenal"},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
