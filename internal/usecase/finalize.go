package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/htmlutil"
)

// Next step handed back after finalize.
const NextCandidateIntake = "candidate_intake"

type FinalizeUseCase struct {
	Drafts   entity.DraftStoreInterface
	Notifier FinalizeNotifier
	Mode     string
	Logger   *zap.Logger
}

func NewFinalizeUseCase(drafts entity.DraftStoreInterface, notifier FinalizeNotifier, mode string, logger *zap.Logger) *FinalizeUseCase {
	return &FinalizeUseCase{
		Drafts:   drafts,
		Notifier: notifier,
		Mode:     mode,
		Logger:   logger,
	}
}

// Execute delivers the draft and discards its session. A delivery failure is
// logged and reported as Delivered=false; the call itself still succeeds.
func (uc *FinalizeUseCase) Execute(ctx context.Context, userID, draftID string, in FinalizeInput) (*FinalizeOutput, error) {
	session, err := uc.Drafts.Get(userID, draftID)
	if err != nil {
		return nil, storeError(err)
	}

	html := in.HTML
	if strings.TrimSpace(html) == "" {
		html = session.HTML
	}
	contacts := in.Contacts
	if len(contacts) == 0 {
		contacts = session.Contacts
	}

	var errs []ValidationError
	if strings.TrimSpace(html) == "" {
		errs = append(errs, ValidationError{"html", "email content is required"})
	}
	if len(contacts) == 0 {
		errs = append(errs, ValidationError{"contacts", "at least one contact is required"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	draft := entity.Draft{
		Subject:  subjectFor(in.Subject, session.Subject, html),
		Body:     html,
		Contacts: contacts,
	}

	delivered := true
	if err := uc.Notifier.Finalize(ctx, draft); err != nil {
		delivered = false
		uc.Logger.Error("finalize delivery failed",
			zap.String("draft_id", draftID),
			zap.String("mode", uc.Mode),
			zap.Error(err),
		)
	}

	uc.Drafts.Delete(userID, draftID)

	return &FinalizeOutput{
		Delivered: delivered,
		Mode:      uc.Mode,
		Draft:     draft,
		NextStep:  NextStep{Action: NextCandidateIntake},
	}, nil
}

func subjectFor(override, stored, html string) string {
	for _, s := range []string{override, stored, htmlutil.Title(html)} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return entity.DefaultEmailSubject
}
