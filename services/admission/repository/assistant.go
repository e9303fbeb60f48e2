package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spmb/domain"
)

const geminiModel = "gemini-2.0-flash"

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const systemInstruction = `
Anda adalah Asisten Virtual Cerdas untuk SD Negeri Tempurejo 1. Tugas Anda adalah membantu orang tua calon siswa yang ingin mendaftarkan anaknya melalui aplikasi SPMB (Sistem Penerimaan Murid Baru).

Informasi Sekolah:
- Nama: SD Negeri Tempurejo 1
- Alamat: Desa Tempurejo, Kecamatan Tempurejo, Kabupaten Jember.
- Visi: Terwujudnya Peserta Didik yang Beriman, Cerdas, Terampil, dan Berkarakter.
- Fasilitas: Ruang kelas nyaman, Perpustakaan, Lapangan Olahraga, Laboratorium Komputer sederhana, Musholla.
- Ekstrakurikuler: Pramuka (Wajib), Tari, Drumband, Olahraga (Voli, Sepak Bola), Keagamaan.

Persyaratan Pendaftaran:
1. Usia minimal 6 tahun pada bulan Juli tahun ajaran baru.
2. Mengisi formulir pendaftaran di aplikasi ini.
3. Mengunggah Scan/Foto Kartu Keluarga (KK).
4. Mengunggah Scan/Foto Akte Kelahiran.

Alur Pendaftaran:
1. Buka menu "Pendaftaran".
2. Isi data diri anak dan orang tua.
3. Upload dokumen.
4. Tunggu verifikasi admin (status PENDING).
5. Cek kelulusan di menu "Pengumuman" (status ACCEPTED).

Gaya Bicara:
- Ramah, sopan, dan membantu (seperti guru SD yang sabar).
- Gunakan Bahasa Indonesia yang baik dan mudah dimengerti.
- Jika ditanya tentang status pendaftaran spesifik anak, arahkan mereka untuk mengecek menu "Pengumuman" atau "Cek Status" karena Anda adalah AI dan tidak punya akses langsung ke database real-time saat ini.

Jawablah pertanyaan pengguna berdasarkan konteks di atas.
`

type geminiAssistant struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiAssistant talks to the hosted Gemini API. An empty apiKey is a
// valid configuration: the assistant then always answers with the fixed
// apology string instead of calling out.
func NewGeminiAssistant(apiKey string) domain.Assistant {
	return &geminiAssistant{
		apiKey:     apiKey,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *geminiAssistant) Ask(ctx context.Context, history []domain.ChatMessage, message string) string {
	if g.apiKey == "" {
		return domain.ChatFallbackNoAPIKey
	}

	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Role:  turn.Role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		Contents: contents,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ChatFallbackError
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, geminiModel, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ChatFallbackError
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.ChatFallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return domain.ChatFallbackError
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.ChatFallbackError
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return domain.ChatFallbackError
	}

	return result.Candidates[0].Content.Parts[0].Text
}
