package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmb/config"
	"spmb/domain"
	"spmb/services/admission/repository"
	"spmb/services/admission/usecase"
)

type memoryRegistrationRepo struct {
	regs []domain.Registration
}

func (m *memoryRegistrationRepo) List(ctx context.Context) (*[]domain.Registration, error) {
	out := make([]domain.Registration, len(m.regs))
	copy(out, m.regs)
	return &out, nil
}

func (m *memoryRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	for i := range m.regs {
		if m.regs[i].ID == id {
			reg := m.regs[i]
			return &reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryRegistrationRepo) Create(ctx context.Context, candidate *domain.RegistrationCandidate) (*domain.Registration, error) {
	if len(candidate.KKImage)+len(candidate.AkteImage) > domain.MaxAttachmentBytes {
		return nil, domain.ErrPayloadTooLarge
	}
	reg := domain.Registration{
		ID:               uuid.NewString(),
		FullName:         candidate.FullName,
		NIK:              candidate.NIK,
		Address:          candidate.Address,
		Gender:           candidate.Gender,
		Status:           domain.StatusPending,
		RegistrationDate: time.Now(),
	}
	m.regs = append(m.regs, reg)
	return &reg, nil
}

func (m *memoryRegistrationRepo) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) error {
	for i := range m.regs {
		if m.regs[i].ID == id {
			m.regs[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func newTestApp(t *testing.T) (*fiber.App, *memoryRegistrationRepo) {
	t.Helper()

	repo := &memoryRegistrationRepo{}
	drafts := repository.NewMemoryDraftStore()
	t.Cleanup(drafts.Close)
	uc := usecase.NewRegistrationUseCase(repo, drafts, nil, config.GetMetrics(), config.GetLogrusInstance(), 5*time.Second)

	app := fiber.New()
	NewRegistrationDelivery(app, uc, drafts)
	NewAdminDelivery(app, uc)
	NewPublicDelivery(app, uc)
	return app, repo
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func uploadImage(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 50, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "kk.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func createDraft(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/registration/draft", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id, _ := body["draft_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func fillDraft(t *testing.T, app *fiber.App, draftID string) {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPut, "/registration/draft/"+draftID+"/applicant", map[string]string{
		"full_name":   "Ahmad Fauzi",
		"nik":         "3509160101180001",
		"birth_place": "Jember",
		"birth_date":  "2018-01-01",
		"gender":      "Laki-laki",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/registration/draft/"+draftID+"/guardian", map[string]string{
		"kk_number":    "3509160101180002",
		"father_name":  "Budi Santoso",
		"mother_name":  "Siti Aminah",
		"parent_phone": "081234567890",
		"address":      "Desa Tempurejo",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = uploadImage(t, app, "/registration/draft/"+draftID+"/document/kk")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = uploadImage(t, app, "/registration/draft/"+draftID+"/document/akte")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/advance/3", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/advance/4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWizardFlowEndToEnd(t *testing.T) {
	app, repo := newTestApp(t)

	draftID := createDraft(t, app)
	fillDraft(t, app, draftID)

	resp, body := doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/submit", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	regID, _ := body["registration_id"].(string)
	assert.NotEmpty(t, regID)
	require.Len(t, repo.regs, 1)
	assert.Equal(t, domain.StatusPending, repo.regs[0].Status)

	// The success page can fetch a QR receipt for the new id.
	req := httptest.NewRequest(http.MethodGet, "/registration/"+regID+"/qr", nil)
	qrResp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, qrResp.StatusCode)
	assert.Equal(t, "image/png", qrResp.Header.Get("Content-Type"))
}

func TestSubmitWithoutDocuments(t *testing.T) {
	app, repo := newTestApp(t)

	draftID := createDraft(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/submit", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.regs)
}

func TestAdvanceRejectsInvalidSection(t *testing.T) {
	app, _ := newTestApp(t)
	draftID := createDraft(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/advance/9", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestJumpToLockedSection(t *testing.T) {
	app, _ := newTestApp(t)
	draftID := createDraft(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/jump/4", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadStaleSeqConflict(t *testing.T) {
	app, _ := newTestApp(t)
	draftID := createDraft(t, app)

	resp := uploadImage(t, app, fmt.Sprintf("/registration/draft/%s/document/kk?seq=5", draftID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// An older upload finishing late loses the race.
	resp = uploadImage(t, app, fmt.Sprintf("/registration/draft/%s/document/kk?seq=3", draftID))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUploadUnknownSlot(t *testing.T) {
	app, _ := newTestApp(t)
	draftID := createDraft(t, app)

	resp := uploadImage(t, app, "/registration/draft/"+draftID+"/document/ijazah")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSchoolChoiceEndpoints(t *testing.T) {
	app, _ := newTestApp(t)
	draftID := createDraft(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/schools", map[string]string{
		"school": "SD Negeri Tempurejo 2",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Len(t, data["school_choices"], 2)

	// Duplicates are refused.
	resp, _ = doJSON(t, app, http.MethodPost, "/registration/draft/"+draftID+"/schools", map[string]string{
		"school": "SD Negeri Tempurejo 2",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The home school at index 0 silently survives removal attempts.
	resp, body = doJSON(t, app, http.MethodDelete, "/registration/draft/"+draftID+"/schools/0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Len(t, data["school_choices"], 2)

	resp, body = doJSON(t, app, http.MethodDelete, "/registration/draft/"+draftID+"/schools/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Len(t, data["school_choices"], 1)
}

func TestDraftNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/registration/draft/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
