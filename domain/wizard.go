package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/asaskevich/govalidator"
)

type WizardSection int

const (
	SectionApplicant WizardSection = iota + 1
	SectionGuardian
	SectionDocuments
	SectionSchools
	SectionReview
)

const sectionCount = 5

func (s WizardSection) Valid() bool {
	return s >= SectionApplicant && s <= SectionReview
}

type AttachmentSlot string

const (
	SlotKK   AttachmentSlot = "kk"
	SlotAkte AttachmentSlot = "akte"
)

var (
	ErrSectionLocked    = errors.New("bagian ini belum terbuka, selesaikan bagian sebelumnya dahulu")
	ErrUnknownSection   = errors.New("unknown wizard section")
	ErrUnknownSlot      = errors.New("unknown attachment slot")
	ErrStaleAttachment  = errors.New("attachment result superseded by a newer upload")
	ErrSubmitInFlight   = errors.New("pengiriman sedang diproses, mohon tunggu")
	ErrAlreadySubmitted = errors.New("formulir ini sudah terkirim")
	ErrNotOnReview      = errors.New("pengiriman hanya bisa dilakukan dari halaman ringkasan")
	ErrChoiceLimit      = fmt.Errorf("pilihan sekolah maksimal %d", MaxSchoolChoices)
	ErrDuplicateChoice  = errors.New("sekolah tersebut sudah ada di daftar pilihan")
)

// ApplicantData is what section one collects.
type ApplicantData struct {
	FullName   string `json:"full_name" valid:"required~Nama lengkap wajib diisi"`
	NIK        string `json:"nik" valid:"required~NIK wajib diisi,numeric~NIK harus berupa angka,stringlength(16|16)~NIK harus 16 digit"`
	BirthPlace string `json:"birth_place" valid:"required~Tempat lahir wajib diisi"`
	BirthDate  string `json:"birth_date" valid:"required~Tanggal lahir wajib diisi"`
	Gender     string `json:"gender" valid:"required~Jenis kelamin wajib diisi,in(Laki-laki|Perempuan)~Jenis kelamin tidak valid"`
}

// GuardianData is what section two collects.
type GuardianData struct {
	KKNumber    string  `json:"kk_number" valid:"required~Nomor KK wajib diisi,numeric~Nomor KK harus berupa angka"`
	FatherName  string  `json:"father_name" valid:"required~Nama ayah wajib diisi"`
	FatherNIK   string  `json:"father_nik" valid:"numeric~NIK ayah harus berupa angka,optional"`
	MotherName  string  `json:"mother_name" valid:"required~Nama ibu wajib diisi"`
	MotherNIK   string  `json:"mother_nik" valid:"numeric~NIK ibu harus berupa angka,optional"`
	ParentPhone string  `json:"parent_phone" valid:"required~Nomor WhatsApp wajib diisi"`
	ParentEmail *string `json:"parent_email" valid:"email~Format email tidak valid,optional"`
	Address     string  `json:"address" valid:"required~Alamat wajib diisi"`
}

// Wizard drives the multi-step registration form. Sections unlock in order:
// advancing past a section requires its data to validate; jumping backward is
// always allowed, jumping forward only up to the highest unlocked section.
type Wizard struct {
	mu sync.Mutex

	draft           RegistrationCandidate
	active          WizardSection
	highestUnlocked WizardSection
	committed       [sectionCount + 1]bool

	// Per-slot upload sequencing. NextAttachmentSeq reserves a number per
	// file selection; SetAttachment applies a result only when its number is
	// newer than the last applied one, so the latest selection always wins
	// regardless of which compression finishes first.
	kkReserved   uint64
	kkApplied    uint64
	akteReserved uint64
	akteApplied  uint64

	submitting  bool
	submittedID string
}

func NewWizard() *Wizard {
	return &Wizard{
		draft: RegistrationCandidate{
			Gender:        "Laki-laki",
			SchoolChoices: []string{HomeSchool},
		},
		active:          SectionApplicant,
		highestUnlocked: SectionApplicant,
	}
}

// WizardState is the JSON snapshot handed to clients. Attachment payloads are
// replaced by presence flags so the state endpoint stays small.
type WizardState struct {
	Active          WizardSection   `json:"active_section"`
	HighestUnlocked WizardSection   `json:"highest_unlocked"`
	Committed       []WizardSection `json:"committed_sections"`
	Applicant       ApplicantData   `json:"applicant"`
	Guardian        GuardianData    `json:"guardian"`
	SchoolChoices   []string        `json:"school_choices"`
	HasKKImage      bool            `json:"has_kk_image"`
	HasAkteImage    bool            `json:"has_akte_image"`
	SubmittedID     string          `json:"submitted_id,omitempty"`
}

func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	var committed []WizardSection
	for s := SectionApplicant; s <= SectionReview; s++ {
		if w.committed[s] {
			committed = append(committed, s)
		}
	}

	choices := make([]string, len(w.draft.SchoolChoices))
	copy(choices, w.draft.SchoolChoices)

	return WizardState{
		Active:          w.active,
		HighestUnlocked: w.highestUnlocked,
		Committed:       committed,
		Applicant: ApplicantData{
			FullName:   w.draft.FullName,
			NIK:        w.draft.NIK,
			BirthPlace: w.draft.BirthPlace,
			BirthDate:  w.draft.BirthDate,
			Gender:     w.draft.Gender,
		},
		Guardian: GuardianData{
			KKNumber:    w.draft.KKNumber,
			FatherName:  w.draft.FatherName,
			FatherNIK:   w.draft.FatherNIK,
			MotherName:  w.draft.MotherName,
			MotherNIK:   w.draft.MotherNIK,
			ParentPhone: w.draft.ParentPhone,
			ParentEmail: w.draft.ParentEmail,
			Address:     w.draft.Address,
		},
		SchoolChoices: choices,
		HasKKImage:    w.draft.KKImage != "",
		HasAkteImage:  w.draft.AkteImage != "",
		SubmittedID:   w.submittedID,
	}
}

// UpdateApplicant stores section-one fields without validating; validation
// happens when the user advances past the section.
func (w *Wizard) UpdateApplicant(data ApplicantData) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.FullName = data.FullName
	w.draft.NIK = data.NIK
	w.draft.BirthPlace = data.BirthPlace
	w.draft.BirthDate = data.BirthDate
	w.draft.Gender = data.Gender
}

func (w *Wizard) UpdateGuardian(data GuardianData) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.KKNumber = data.KKNumber
	w.draft.FatherName = data.FatherName
	w.draft.FatherNIK = data.FatherNIK
	w.draft.MotherName = data.MotherName
	w.draft.MotherNIK = data.MotherNIK
	w.draft.ParentPhone = data.ParentPhone
	w.draft.ParentEmail = data.ParentEmail
	w.draft.Address = data.Address
}

// Advance validates the given section against the collected data. Success
// commits the section and makes the next one active; failure keeps the state
// untouched and returns the human-readable reason.
func (w *Wizard) Advance(from WizardSection) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !from.Valid() {
		return ErrUnknownSection
	}
	if from > w.highestUnlocked {
		return ErrSectionLocked
	}

	if err := w.validateSection(from); err != nil {
		return err
	}

	w.committed[from] = true
	if from < SectionReview {
		next := from + 1
		if next > w.highestUnlocked {
			w.highestUnlocked = next
		}
		w.active = next
	}
	return nil
}

// JumpTo re-opens an already reachable section for editing.
func (w *Wizard) JumpTo(section WizardSection) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !section.Valid() {
		return ErrUnknownSection
	}
	if section > w.highestUnlocked {
		return ErrSectionLocked
	}
	w.active = section
	return nil
}

// SetAttachment records a compressed attachment for one slot. seq is the
// reserved sequence number for that upload; results arriving with a sequence
// not newer than the last applied one lost the race and are discarded.
func (w *Wizard) SetAttachment(slot AttachmentSlot, seq uint64, dataURI string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch slot {
	case SlotKK:
		if seq <= w.kkApplied {
			return ErrStaleAttachment
		}
		w.kkApplied = seq
		if seq > w.kkReserved {
			w.kkReserved = seq
		}
		w.draft.KKImage = dataURI
	case SlotAkte:
		if seq <= w.akteApplied {
			return ErrStaleAttachment
		}
		w.akteApplied = seq
		if seq > w.akteReserved {
			w.akteReserved = seq
		}
		w.draft.AkteImage = dataURI
	default:
		return ErrUnknownSlot
	}
	return nil
}

// NextAttachmentSeq reserves the sequence number for a new upload on a slot.
// Each call hands out a strictly larger number, so overlapping uploads are
// ordered by selection time, not by completion time.
func (w *Wizard) NextAttachmentSeq(slot AttachmentSlot) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch slot {
	case SlotKK:
		w.kkReserved++
		return w.kkReserved, nil
	case SlotAkte:
		w.akteReserved++
		return w.akteReserved, nil
	default:
		return 0, ErrUnknownSlot
	}
}

func (w *Wizard) AddSchoolChoice(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.draft.SchoolChoices) >= MaxSchoolChoices {
		return ErrChoiceLimit
	}
	for _, existing := range w.draft.SchoolChoices {
		if existing == name {
			return ErrDuplicateChoice
		}
	}
	w.draft.SchoolChoices = append(w.draft.SchoolChoices, name)
	return nil
}

// RemoveSchoolChoice drops a choice by position. Index 0 is the home school
// and silently stays: removing it is a no-op, not an error.
func (w *Wizard) RemoveSchoolChoice(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index < 0 || index >= len(w.draft.SchoolChoices) {
		return fmt.Errorf("pilihan nomor %d tidak ada", index+1)
	}
	if index == 0 {
		return nil
	}
	w.draft.SchoolChoices = append(w.draft.SchoolChoices[:index], w.draft.SchoolChoices[index+1:]...)
	return nil
}

// BeginSubmit gates submission: review must be reached, both attachments must
// be present, and only one attempt may be in flight. The returned payload is a
// copy safe to hand to the store.
func (w *Wizard) BeginSubmit() (*RegistrationCandidate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submittedID != "" {
		return nil, ErrAlreadySubmitted
	}
	if w.submitting {
		return nil, ErrSubmitInFlight
	}
	if w.highestUnlocked < SectionReview {
		return nil, ErrNotOnReview
	}
	for s := SectionApplicant; s < SectionReview; s++ {
		if !w.committed[s] {
			return nil, ErrNotOnReview
		}
	}
	if w.draft.KKImage == "" || w.draft.AkteImage == "" {
		return nil, ErrMissingAttachment
	}

	w.submitting = true
	payload := w.draft
	payload.SchoolChoices = make([]string, len(w.draft.SchoolChoices))
	copy(payload.SchoolChoices, w.draft.SchoolChoices)
	return &payload, nil
}

// EndSubmit releases the in-flight gate. On success the wizard becomes
// terminal and keeps the assigned id; on failure all entered data stays so the
// attempt can be retried from review.
func (w *Wizard) EndSubmit(id string, success bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.submitting = false
	if success {
		w.submittedID = id
	}
}

func (w *Wizard) validateSection(section WizardSection) error {
	switch section {
	case SectionApplicant:
		data := ApplicantData{
			FullName:   w.draft.FullName,
			NIK:        w.draft.NIK,
			BirthPlace: w.draft.BirthPlace,
			BirthDate:  w.draft.BirthDate,
			Gender:     w.draft.Gender,
		}
		if _, err := govalidator.ValidateStruct(data); err != nil {
			return firstValidationError(err)
		}
	case SectionGuardian:
		data := GuardianData{
			KKNumber:    w.draft.KKNumber,
			FatherName:  w.draft.FatherName,
			FatherNIK:   w.draft.FatherNIK,
			MotherName:  w.draft.MotherName,
			MotherNIK:   w.draft.MotherNIK,
			ParentPhone: w.draft.ParentPhone,
			ParentEmail: w.draft.ParentEmail,
			Address:     w.draft.Address,
		}
		if _, err := govalidator.ValidateStruct(data); err != nil {
			return firstValidationError(err)
		}
	case SectionDocuments:
		if w.draft.KKImage == "" || w.draft.AkteImage == "" {
			return ErrMissingAttachment
		}
	case SectionSchools:
		if err := validateSchoolChoices(w.draft.SchoolChoices); err != nil {
			return err
		}
	case SectionReview:
		// Review has no fields of its own; committing it re-checks everything.
		for s := SectionApplicant; s < SectionReview; s++ {
			if err := w.validateSection(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSchoolChoices(choices []string) error {
	if len(choices) == 0 || choices[0] != HomeSchool {
		return fmt.Errorf("pilihan pertama harus %s", HomeSchool)
	}
	if len(choices) > MaxSchoolChoices {
		return ErrChoiceLimit
	}
	seen := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		if _, dup := seen[c]; dup {
			return ErrDuplicateChoice
		}
		seen[c] = struct{}{}
	}
	return nil
}

// firstValidationError flattens a govalidator multi-error into the first
// field message so the form can show one inline banner.
func firstValidationError(err error) error {
	if errs, ok := err.(govalidator.Errors); ok && len(errs.Errors()) > 0 {
		return errs.Errors()[0]
	}
	return err
}
