package domain

import (
	"context"
	"errors"
	"time"
)

type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "PENDING"
	StatusAccepted RegistrationStatus = "ACCEPTED"
	StatusRejected RegistrationStatus = "REJECTED"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// HomeSchool is the mandatory first school choice on every registration.
const HomeSchool = "SD Negeri Tempurejo 1"

// MaxSchoolChoices caps the choice list, home school included.
const MaxSchoolChoices = 5

// MaxAttachmentBytes is the combined ceiling for both attachment payloads.
// The backing store rejects records near 1MB, so the facade refuses earlier
// with an error the UI can translate into "use a smaller photo".
const MaxAttachmentBytes = 1 << 20

var (
	ErrStoreNotConfigured = errors.New("database is not configured, check the DB_* environment variables")
	ErrPayloadTooLarge    = errors.New("attachment payload exceeds the maximum allowed size")
	ErrNotFound           = errors.New("registration not found")
	ErrMissingAttachment  = errors.New("both family card and birth certificate images are required")
)

type Registration struct {
	ID               string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName         string             `gorm:"type:varchar(150);not null" json:"full_name" valid:"required~Nama lengkap wajib diisi"`
	NIK              string             `gorm:"type:varchar(16);not null" json:"nik" valid:"required~NIK wajib diisi,numeric~NIK harus berupa angka"`
	BirthPlace       string             `gorm:"type:varchar(100);not null" json:"birth_place" valid:"required~Tempat lahir wajib diisi"`
	BirthDate        string             `gorm:"type:varchar(10);not null" json:"birth_date" valid:"required~Tanggal lahir wajib diisi"`
	Gender           string             `gorm:"type:varchar(15);not null" json:"gender" valid:"required~Jenis kelamin wajib diisi,in(Laki-laki|Perempuan)~Jenis kelamin tidak valid"`
	Address          string             `gorm:"type:text;not null" json:"address" valid:"required~Alamat wajib diisi"`
	KKNumber         string             `gorm:"type:varchar(16);not null" json:"kk_number" valid:"required~Nomor KK wajib diisi,numeric~Nomor KK harus berupa angka"`
	FatherName       string             `gorm:"type:varchar(150);not null" json:"father_name" valid:"required~Nama ayah wajib diisi"`
	FatherNIK        string             `gorm:"type:varchar(16)" json:"father_nik" valid:"numeric~NIK ayah harus berupa angka,optional"`
	MotherName       string             `gorm:"type:varchar(150);not null" json:"mother_name" valid:"required~Nama ibu wajib diisi"`
	MotherNIK        string             `gorm:"type:varchar(16)" json:"mother_nik" valid:"numeric~NIK ibu harus berupa angka,optional"`
	ParentPhone      string             `gorm:"type:varchar(15);not null" json:"parent_phone" valid:"required~Nomor WhatsApp wajib diisi"`
	ParentEmail      *string            `gorm:"type:varchar(150)" json:"parent_email,omitempty" valid:"email~Format email tidak valid,optional"`
	SchoolChoices    []string           `gorm:"serializer:json" json:"school_choices"`
	KKImage          string             `gorm:"type:text;not null" json:"kk_image"`
	AkteImage        string             `gorm:"type:text;not null" json:"akte_image"`
	Status           RegistrationStatus `gorm:"type:varchar(10);not null;default:PENDING" json:"status"`
	RegistrationDate time.Time          `gorm:"not null;index" json:"registration_date"`
}

// RegistrationCandidate is what the wizard hands the store: a Registration
// minus the fields only the store may assign.
type RegistrationCandidate struct {
	FullName      string
	NIK           string
	BirthPlace    string
	BirthDate     string
	Gender        string
	Address       string
	KKNumber      string
	FatherName    string
	FatherNIK     string
	MotherName    string
	MotherNIK     string
	ParentPhone   string
	ParentEmail   *string
	SchoolChoices []string
	KKImage       string
	AkteImage     string
}

type RegistrationRepo interface {
	List(ctx context.Context) (*[]Registration, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	Create(ctx context.Context, candidate *RegistrationCandidate) (*Registration, error)
	UpdateStatus(ctx context.Context, id string, status RegistrationStatus) error
}

type RegistrationUseCase interface {
	ListAll(ctx context.Context) (*[]Registration, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	Submit(ctx context.Context, draftID string) (*Registration, error)
	Decide(ctx context.Context, id string, status RegistrationStatus) (*[]Registration, error)
	ListAccepted(ctx context.Context) (*[]Registration, error)
}

// Notifier tells the guardian about an admin decision. Best effort: failures
// are logged by the caller, never surfaced to the admin response.
type Notifier interface {
	NotifyDecision(ctx context.Context, reg *Registration) error
}
