package delivery

import (
	"errors"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"

	"spmb/config"
	"spmb/domain"
	"spmb/imaging"
)

type registrationHandler struct {
	ruc    domain.RegistrationUseCase
	drafts domain.DraftStore
}

func NewRegistrationDelivery(app *fiber.App, uc domain.RegistrationUseCase, drafts domain.DraftStore) {
	handler := &registrationHandler{
		ruc:    uc,
		drafts: drafts,
	}

	route := app.Group("/registration")
	route.Post("/draft", handler.deliveryCreateDraft)
	route.Get("/draft/:id", handler.deliveryGetDraft)
	route.Put("/draft/:id/applicant", handler.deliveryUpdateApplicant)
	route.Put("/draft/:id/guardian", handler.deliveryUpdateGuardian)
	route.Post("/draft/:id/document/:slot", handler.deliveryUploadDocument)
	route.Post("/draft/:id/schools", handler.deliveryAddSchoolChoice)
	route.Delete("/draft/:id/schools/:index", handler.deliveryRemoveSchoolChoice)
	route.Post("/draft/:id/advance/:section", handler.deliveryAdvance)
	route.Post("/draft/:id/jump/:section", handler.deliveryJump)
	route.Post("/draft/:id/submit", handler.deliverySubmit)
	route.Get("/:id/qr", handler.deliveryReceiptQR)
}

func (rh *registrationHandler) deliveryCreateDraft(c *fiber.Ctx) error {
	id, wizard, err := rh.drafts.Create(c.Context())
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "CreateDraft")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal membuat formulir baru",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusCreated, "CreateDraft")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Formulir pendaftaran dibuat",
		"draft_id": id,
		"data":     wizard.State(),
	})
}

func (rh *registrationHandler) deliveryGetDraft(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "GetDraft")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "GetDraft")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryUpdateApplicant(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "UpdateApplicant")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	var req domain.ApplicantData
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UpdateApplicant")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}

	wizard.UpdateApplicant(req)
	if err := wizard.Advance(domain.SectionApplicant); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UpdateApplicant")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "UpdateApplicant")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Data diri tersimpan",
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryUpdateGuardian(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "UpdateGuardian")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	var req domain.GuardianData
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UpdateGuardian")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}

	wizard.UpdateGuardian(req)
	if err := wizard.Advance(domain.SectionGuardian); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UpdateGuardian")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "UpdateGuardian")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Data orang tua tersimpan",
		"data":    wizard.State(),
	})
}

// deliveryUploadDocument compresses the uploaded photo and stores it on the
// draft. The optional seq query parameter lets clients tag rapid re-uploads
// so a slow compression cannot overwrite a newer pick.
func (rh *registrationHandler) deliveryUploadDocument(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "UploadDocument")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	slot := domain.AttachmentSlot(c.Params("slot"))

	seq := uint64(0)
	if raw := c.Query("seq"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			config.PrintLogInfo(nil, fiber.StatusBadRequest, "UploadDocument")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid seq parameter",
			})
		}
		seq = parsed
	} else {
		next, err := wizard.NextAttachmentSeq(slot)
		if err != nil {
			config.PrintLogInfo(nil, fiber.StatusBadRequest, "UploadDocument")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		seq = next
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UploadDocument")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": imaging.ErrEmptyFile.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "UploadDocument")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal membaca file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	dataURI, err := imaging.Compress(file)
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "UploadDocument")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := wizard.SetAttachment(slot, seq, dataURI); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrStaleAttachment) {
			status = fiber.StatusConflict
		}
		config.PrintLogInfo(nil, status, "UploadDocument")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "UploadDocument")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dokumen tersimpan",
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryAddSchoolChoice(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "AddSchoolChoice")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	var req struct {
		School string `json:"school" valid:"required~Nama sekolah wajib diisi"`
	}
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "AddSchoolChoice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}
	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "AddSchoolChoice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := wizard.AddSchoolChoice(req.School); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "AddSchoolChoice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "AddSchoolChoice")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pilihan sekolah ditambahkan",
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryRemoveSchoolChoice(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "RemoveSchoolChoice")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "RemoveSchoolChoice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Converter Failure on index",
			"error":   err.Error(),
		})
	}

	if err := wizard.RemoveSchoolChoice(index); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "RemoveSchoolChoice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "RemoveSchoolChoice")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pilihan sekolah diperbarui",
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryAdvance(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "AdvanceSection")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	section, err := parseSection(c.Params("section"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "AdvanceSection")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := wizard.Advance(section); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "AdvanceSection")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "AdvanceSection")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliveryJump(c *fiber.Ctx) error {
	wizard, err := rh.drafts.Get(c.Context(), c.Params("id"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusNotFound, "JumpSection")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	section, err := parseSection(c.Params("section"))
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "JumpSection")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := wizard.JumpTo(section); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "JumpSection")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "JumpSection")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    wizard.State(),
	})
}

func (rh *registrationHandler) deliverySubmit(c *fiber.Ctx) error {
	reg, err := rh.ruc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		status, message := submitErrorResponse(err)
		config.PrintLogInfo(nil, status, "SubmitRegistration")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusCreated, "SubmitRegistration")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"message":         "Pendaftaran berhasil! Silakan cek status penerimaan secara berkala di menu Pengumuman.",
		"registration_id": reg.ID,
	})
}

// deliveryReceiptQR renders the registration id as a QR code for the success
// page, so parents can save a scannable receipt.
func (rh *registrationHandler) deliveryReceiptQR(c *fiber.Ctx) error {
	reg, err := rh.ruc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			config.PrintLogInfo(nil, fiber.StatusNotFound, "ReceiptQR")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Pendaftaran tidak ditemukan",
			})
		}
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "ReceiptQR")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil data pendaftaran",
			"error":   err.Error(),
		})
	}

	png, err := qrcode.Encode(reg.ID, qrcode.Medium, 256)
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusInternalServerError, "ReceiptQR")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal membuat QR code",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "ReceiptQR")
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func parseSection(raw string) (domain.WizardSection, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrUnknownSection
	}
	section := domain.WizardSection(value)
	if !section.Valid() {
		return 0, domain.ErrUnknownSection
	}
	return section, nil
}

func submitErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDraftNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrMissingAttachment):
		return fiber.StatusBadRequest, "Mohon upload kedua dokumen (KK dan Akte) sebelum mendaftar."
	case errors.Is(err, domain.ErrNotOnReview),
		errors.Is(err, domain.ErrAlreadySubmitted):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSubmitInFlight):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge, "Ukuran data terlalu besar. Mohon ganti foto dengan resolusi lebih rendah."
	default:
		return fiber.StatusInternalServerError, "Terjadi kesalahan saat menyimpan data. Pastikan koneksi internet lancar."
	}
}
