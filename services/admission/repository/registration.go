package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"spmb/domain"
)

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository wraps the primary store. db may be nil when the
// database is unconfigured; reads then report domain.ErrStoreNotConfigured,
// which list callers degrade to an empty result.
func NewRegistrationRepository(database *gorm.DB) domain.RegistrationRepo {
	return &registrationRepository{
		db: database,
	}
}

func (rr *registrationRepository) List(ctx context.Context) (*[]domain.Registration, error) {
	if rr.db == nil {
		return nil, domain.ErrStoreNotConfigured
	}

	var regs []domain.Registration
	err := rr.db.WithContext(ctx).
		Order("registration_date DESC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("could not list registrations: %v", err)
	}

	return &regs, nil
}

func (rr *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if rr.db == nil {
		return nil, domain.ErrStoreNotConfigured
	}

	var reg domain.Registration
	err := rr.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("could not get registration: %v", err)
	}

	return &reg, nil
}

// Create assigns the id, forces status PENDING and stamps the registration
// date. The caller never supplies any of those three.
func (rr *registrationRepository) Create(ctx context.Context, candidate *domain.RegistrationCandidate) (*domain.Registration, error) {
	if rr.db == nil {
		return nil, domain.ErrStoreNotConfigured
	}

	if candidate.KKImage == "" || candidate.AkteImage == "" {
		return nil, domain.ErrMissingAttachment
	}
	if len(candidate.KKImage)+len(candidate.AkteImage) > domain.MaxAttachmentBytes {
		return nil, domain.ErrPayloadTooLarge
	}

	reg := domain.Registration{
		ID:               uuid.NewString(),
		FullName:         candidate.FullName,
		NIK:              candidate.NIK,
		BirthPlace:       candidate.BirthPlace,
		BirthDate:        candidate.BirthDate,
		Gender:           candidate.Gender,
		Address:          candidate.Address,
		KKNumber:         candidate.KKNumber,
		FatherName:       candidate.FatherName,
		FatherNIK:        candidate.FatherNIK,
		MotherName:       candidate.MotherName,
		MotherNIK:        candidate.MotherNIK,
		ParentPhone:      candidate.ParentPhone,
		ParentEmail:      candidate.ParentEmail,
		SchoolChoices:    candidate.SchoolChoices,
		KKImage:          candidate.KKImage,
		AkteImage:        candidate.AkteImage,
		Status:           domain.StatusPending,
		RegistrationDate: time.Now(),
	}

	if err := rr.db.WithContext(ctx).Create(&reg).Error; err != nil {
		return nil, fmt.Errorf("could not insert registration: %v", err)
	}

	return &reg, nil
}

// UpdateStatus is idempotent: re-applying the current status succeeds without
// touching the row.
func (rr *registrationRepository) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) error {
	if rr.db == nil {
		return domain.ErrStoreNotConfigured
	}
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	return rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg domain.Registration
		if err := tx.Where("id = ?", id).First(&reg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("could not get registration: %v", err)
		}

		if reg.Status == status {
			return nil
		}

		if err := tx.Model(&reg).Update("status", status).Error; err != nil {
			return fmt.Errorf("could not update status: %v", err)
		}
		return nil
	})
}
