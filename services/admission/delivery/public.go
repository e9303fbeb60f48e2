package delivery

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"spmb/config"
	"spmb/domain"
)

type publicHandler struct {
	ruc domain.RegistrationUseCase
}

func NewPublicDelivery(app *fiber.App, uc domain.RegistrationUseCase) {
	handler := &publicHandler{
		ruc: uc,
	}

	app.Get("/announcement", handler.deliveryAnnouncement)
	app.Get("/students", handler.deliveryStudents)
}

// announcementEntry is the public view of an accepted registration. The NIK
// is masked so the page can confirm identity without exposing the full number.
type announcementEntry struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	MaskedNIK        string `json:"nik"`
	RegistrationDate string `json:"registration_date"`
}

type studentEntry struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
}

func maskNIK(nik string) string {
	if len(nik) <= 10 {
		return nik
	}
	return nik[:10] + "******"
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// deliveryAnnouncement lists accepted applicants, newest first, filtered by a
// case-insensitive match on name or NIK.
func (ph *publicHandler) deliveryAnnouncement(c *fiber.Ctx) error {
	registrations, err := ph.ruc.ListAccepted(c.Context())
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "Announcement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get announcement list",
			"error":   err.Error(),
		})
	}

	search := c.Query("search")
	entries := make([]announcementEntry, 0, len(*registrations))
	for _, reg := range *registrations {
		if search != "" && !containsFold(reg.FullName, search) && !containsFold(reg.NIK, search) {
			continue
		}
		entries = append(entries, announcementEntry{
			ID:               reg.ID,
			FullName:         reg.FullName,
			MaskedNIK:        maskNIK(reg.NIK),
			RegistrationDate: reg.RegistrationDate.Format("2006-01-02"),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "Announcement")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcement list retrieved",
		"data":    entries,
		"total":   len(entries),
	})
}

// deliveryStudents lists accepted students for the directory page, filtered
// by a case-insensitive match on name or address.
func (ph *publicHandler) deliveryStudents(c *fiber.Ctx) error {
	registrations, err := ph.ruc.ListAccepted(c.Context())
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "Students")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get student list",
			"error":   err.Error(),
		})
	}

	search := c.Query("search")
	entries := make([]studentEntry, 0, len(*registrations))
	for _, reg := range *registrations {
		if search != "" && !containsFold(reg.FullName, search) && !containsFold(reg.Address, search) {
			continue
		}
		entries = append(entries, studentEntry{
			ID:       reg.ID,
			FullName: reg.FullName,
			Gender:   reg.Gender,
			Address:  reg.Address,
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "Students")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Student list retrieved",
		"data":    entries,
		"total":   len(entries),
	})
}
