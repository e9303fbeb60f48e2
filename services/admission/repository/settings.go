package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spmb/domain"
)

type settingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository stores the branding values in a small key/value table
// kept apart from the registration rows.
func NewSettingsRepository(database *pgxpool.Pool) domain.SettingsRepo {
	return &settingsRepository{
		db: database,
	}
}

const settingsMigration = `
	CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(50) PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// MigrateSettings creates the settings table. Called once at boot.
func MigrateSettings(ctx context.Context, db *pgxpool.Pool) error {
	if db == nil {
		return domain.ErrStoreNotConfigured
	}
	if _, err := db.Exec(ctx, settingsMigration); err != nil {
		return fmt.Errorf("could not migrate settings: %v", err)
	}
	return nil
}

func (sr *settingsRepository) GetLogo(ctx context.Context) (string, error) {
	if sr.db == nil {
		return "", domain.ErrStoreNotConfigured
	}

	query := `SELECT value FROM settings WHERE key = 'logo';`

	var value string
	err := sr.db.QueryRow(ctx, query).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("could not get logo: %v", err)
	}

	return value, nil
}

func (sr *settingsRepository) SetLogo(ctx context.Context, dataURI string) error {
	if sr.db == nil {
		return domain.ErrStoreNotConfigured
	}

	query := `
		INSERT INTO settings (key, value) VALUES ('logo', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
	`

	if _, err := sr.db.Exec(ctx, query, dataURI); err != nil {
		return fmt.Errorf("could not set logo: %v", err)
	}
	return nil
}
