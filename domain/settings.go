package domain

import "context"

// SettingsRepo is the single-row branding area of the store. Only the logo
// lives there today.
type SettingsRepo interface {
	GetLogo(ctx context.Context) (string, error)
	SetLogo(ctx context.Context, dataURI string) error
}

// LogoCache is the client-facing cache in front of SettingsRepo. Get returns
// ok=false on a miss; a miss is not an error.
type LogoCache interface {
	Get(ctx context.Context) (value string, ok bool, err error)
	Set(ctx context.Context, dataURI string) error
}

type SettingsUseCase interface {
	// Logo serves the cached value when present and revalidates against the
	// store in the background; a cache miss reads through synchronously.
	Logo(ctx context.Context) (string, error)
	UpdateLogo(ctx context.Context, dataURI string) error
}
