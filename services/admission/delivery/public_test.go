package delivery

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmb/domain"
)

func seedAccepted(t *testing.T, repo *memoryRegistrationRepo) {
	t.Helper()

	now := time.Now()
	repo.regs = []domain.Registration{
		{ID: "r1", FullName: "Ahmad Fauzi", NIK: "3509160101180001", Gender: "Laki-laki", Address: "Desa Tempurejo", Status: domain.StatusAccepted, RegistrationDate: now},
		{ID: "r2", FullName: "Citra Dewi", NIK: "3509160202190002", Gender: "Perempuan", Address: "Desa Curahnongko", Status: domain.StatusAccepted, RegistrationDate: now},
		{ID: "r3", FullName: "Budi Santoso", NIK: "3509160303200003", Gender: "Laki-laki", Address: "Desa Tempurejo", Status: domain.StatusPending, RegistrationDate: now},
	}
}

func TestAnnouncementListsOnlyAccepted(t *testing.T) {
	app, repo := newTestApp(t)
	seedAccepted(t, repo)

	resp, body := doJSON(t, app, http.MethodGet, "/announcement", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 2, body["total"])
	entries := body["data"].([]any)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "3509160101******", first["nik"])
}

func TestAnnouncementSearchByNameAndNIK(t *testing.T) {
	app, repo := newTestApp(t)
	seedAccepted(t, repo)

	_, body := doJSON(t, app, http.MethodGet, "/announcement?search=ahmad", nil)
	assert.EqualValues(t, 1, body["total"])

	_, body = doJSON(t, app, http.MethodGet, "/announcement?search=3509160202", nil)
	assert.EqualValues(t, 1, body["total"])

	// Pending applicants never match, even by exact NIK.
	_, body = doJSON(t, app, http.MethodGet, "/announcement?search=3509160303200003", nil)
	assert.EqualValues(t, 0, body["total"])
}

func TestStudentsSearchByNameAndAddress(t *testing.T) {
	app, repo := newTestApp(t)
	seedAccepted(t, repo)

	_, body := doJSON(t, app, http.MethodGet, "/students", nil)
	assert.EqualValues(t, 2, body["total"])

	_, body = doJSON(t, app, http.MethodGet, "/students?search=curahnongko", nil)
	assert.EqualValues(t, 1, body["total"])

	_, body = doJSON(t, app, http.MethodGet, "/students?search=citra", nil)
	assert.EqualValues(t, 1, body["total"])
}

func TestStudentsOmitSensitiveFields(t *testing.T) {
	app, repo := newTestApp(t)
	seedAccepted(t, repo)

	_, body := doJSON(t, app, http.MethodGet, "/students", nil)
	entries := body["data"].([]any)
	require.NotEmpty(t, entries)

	first := entries[0].(map[string]any)
	assert.NotContains(t, first, "nik")
	assert.NotContains(t, first, "kk_image")
}

func TestPublicListsEmptyWithoutData(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/announcement", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"])
}
