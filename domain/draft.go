package domain

import (
	"context"
	"errors"
)

var ErrDraftNotFound = errors.New("formulir tidak ditemukan atau sudah kedaluwarsa")

// DraftStore holds the in-progress wizards. Drafts are ephemeral: a restart
// loses them, submitted registrations do not.
type DraftStore interface {
	Create(ctx context.Context) (id string, w *Wizard, err error)
	Get(ctx context.Context, id string) (*Wizard, error)
	Delete(ctx context.Context, id string) error
}
