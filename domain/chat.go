package domain

import "context"

// ChatMessage is one turn of the assistant transcript. Transcripts live in the
// client; the server only sees the history echoed back per request.
type ChatMessage struct {
	Role string `json:"role" valid:"required~Role is required,in(user|model)~Invalid role"`
	Text string `json:"text" valid:"required~Text is required"`
}

type ChatRequest struct {
	History []ChatMessage `json:"history"`
	Message string        `json:"message" valid:"required~Pesan tidak boleh kosong"`
}

// ChatFallbackNoAPIKey is the reply when no AI credential is configured.
const ChatFallbackNoAPIKey = "Maaf, kunci API AI belum dikonfigurasi. Saya tidak dapat menjawab pertanyaan saat ini. Namun, Anda dapat melihat menu 'Informasi' atau 'Pengumuman'."

// ChatFallbackError is the reply when the AI call fails.
const ChatFallbackError = "Maaf, terjadi kesalahan pada sistem AI kami. Silakan coba lagi nanti."

// Assistant answers an FAQ question given the prior turns. Implementations
// must never fail on configuration problems: they fall back to a fixed
// apology string instead.
type Assistant interface {
	Ask(ctx context.Context, history []ChatMessage, message string) string
}

type ChatUseCase interface {
	Ask(ctx context.Context, req *ChatRequest) string
}
