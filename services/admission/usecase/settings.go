package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"spmb/domain"
)

type settingsUC struct {
	repo    domain.SettingsRepo
	cache   domain.LogoCache
	log     *logrus.Logger
	TimeOut time.Duration
}

func NewSettingsUseCase(repo domain.SettingsRepo, cache domain.LogoCache, log *logrus.Logger, timeOut time.Duration) domain.SettingsUseCase {
	return &settingsUC{
		repo:    repo,
		cache:   cache,
		log:     log,
		TimeOut: timeOut,
	}
}

// Logo is a read-through: a cache hit is served immediately while the store
// value is revalidated in the background; a miss reads the store and fills
// the cache. Store failures degrade to an empty value, never an error page.
func (sUC *settingsUC) Logo(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, sUC.TimeOut)
	defer cancel()

	cached, ok, err := sUC.cache.Get(ctx)
	if err != nil {
		sUC.log.Warnf("logo cache read: %v", err)
	}
	if ok {
		go sUC.revalidate(cached)
		return cached, nil
	}

	value, err := sUC.repo.GetLogo(ctx)
	if err != nil {
		sUC.log.Warnf("logo store read: %v", err)
		return "", nil
	}

	if value != "" {
		if err := sUC.cache.Set(ctx, value); err != nil {
			sUC.log.Warnf("logo cache fill: %v", err)
		}
	}
	return value, nil
}

// revalidate refreshes the cache from the store after a stale-served hit.
func (sUC *settingsUC) revalidate(served string) {
	ctx, cancel := context.WithTimeout(context.Background(), sUC.TimeOut)
	defer cancel()

	value, err := sUC.repo.GetLogo(ctx)
	if err != nil {
		sUC.log.Warnf("logo revalidate: %v", err)
		return
	}
	if value == "" || value == served {
		return
	}
	if err := sUC.cache.Set(ctx, value); err != nil {
		sUC.log.Warnf("logo cache refresh: %v", err)
	}
}

func (sUC *settingsUC) UpdateLogo(ctx context.Context, dataURI string) error {
	ctx, cancel := context.WithTimeout(ctx, sUC.TimeOut)
	defer cancel()

	if err := sUC.repo.SetLogo(ctx, dataURI); err != nil {
		return err
	}

	if err := sUC.cache.Set(ctx, dataURI); err != nil {
		sUC.log.Warnf("logo cache update: %v", err)
	}
	return nil
}
