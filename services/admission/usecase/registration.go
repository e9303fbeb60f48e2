package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"spmb/config"
	"spmb/domain"
)

type registrationUC struct {
	repo     domain.RegistrationRepo
	drafts   domain.DraftStore
	notifier domain.Notifier
	metrics  *config.Metrics
	log      *logrus.Logger
	TimeOut  time.Duration
}

func NewRegistrationUseCase(repo domain.RegistrationRepo, drafts domain.DraftStore, notifier domain.Notifier, metrics *config.Metrics, log *logrus.Logger, timeOut time.Duration) domain.RegistrationUseCase {
	return &registrationUC{
		repo:     repo,
		drafts:   drafts,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		TimeOut:  timeOut,
	}
}

func (rUC *registrationUC) ListAll(ctx context.Context) (*[]domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, rUC.TimeOut)
	defer cancel()

	regs, err := rUC.repo.List(ctx)
	if err != nil {
		if err == domain.ErrStoreNotConfigured {
			// Read paths degrade to an empty list when the store is absent.
			rUC.log.Warn("registration store not configured, serving empty list")
			empty := []domain.Registration{}
			return &empty, nil
		}
		return nil, err
	}
	return regs, nil
}

func (rUC *registrationUC) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, rUC.TimeOut)
	defer cancel()

	return rUC.repo.GetByID(ctx, id)
}

// Submit turns a completed draft into a stored registration. The wizard gates
// the attempt: missing attachments or an unlocked review section never reach
// the store, and only one attempt per draft is in flight at a time.
func (rUC *registrationUC) Submit(ctx context.Context, draftID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, rUC.TimeOut)
	defer cancel()

	wizard, err := rUC.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	payload, err := wizard.BeginSubmit()
	if err != nil {
		return nil, err
	}

	reg, err := rUC.repo.Create(ctx, payload)
	if err != nil {
		wizard.EndSubmit("", false)
		return nil, err
	}

	wizard.EndSubmit(reg.ID, true)
	rUC.metrics.RegistrationsSubmitted.Inc()
	return reg, nil
}

// Decide applies an admin status decision and returns the refetched list so
// the review panel always reflects store state, never a local patch.
func (rUC *registrationUC) Decide(ctx context.Context, id string, status domain.RegistrationStatus) (*[]domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, rUC.TimeOut)
	defer cancel()

	if err := rUC.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	rUC.metrics.DecisionsMade.WithLabelValues(string(status)).Inc()

	reg, err := rUC.repo.GetByID(ctx, id)
	if err != nil {
		rUC.log.Errorf("fetch registration %s after decision: %v", id, err)
	} else if rUC.notifier != nil {
		// Best effort: the admin response never waits on WhatsApp or SMTP.
		go func(r domain.Registration) {
			nCtx, nCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer nCancel()
			if err := rUC.notifier.NotifyDecision(nCtx, &r); err != nil {
				rUC.log.Errorf("notify guardian of %s: %v", r.ID, err)
			}
		}(*reg)
	}

	return rUC.repo.List(ctx)
}

func (rUC *registrationUC) ListAccepted(ctx context.Context) (*[]domain.Registration, error) {
	regs, err := rUC.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	accepted := make([]domain.Registration, 0, len(*regs))
	for _, reg := range *regs {
		if reg.Status == domain.StatusAccepted {
			accepted = append(accepted, reg)
		}
	}
	return &accepted, nil
}
