package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/htmlutil"
	"github.com/xavierca1/recruitica/internal/infra/integration/automation"
)

type DraftGenerationUseCase struct {
	Candidates entity.CandidateRepositoryInterface
	Contacts   ContactSource
	Gateway    DraftGateway
	Drafts     entity.DraftStoreInterface
	Logger     *zap.Logger
}

func NewDraftGenerationUseCase(
	candidates entity.CandidateRepositoryInterface,
	contacts ContactSource,
	gateway DraftGateway,
	drafts entity.DraftStoreInterface,
	logger *zap.Logger,
) *DraftGenerationUseCase {
	return &DraftGenerationUseCase{
		Candidates: candidates,
		Contacts:   contacts,
		Gateway:    gateway,
		Drafts:     drafts,
		Logger:     logger,
	}
}

// Generate sends the candidate and the active contacts of its list to the
// automation workflow and keeps the returned email as a draft session.
func (uc *DraftGenerationUseCase) Generate(ctx context.Context, userID, candidateID string) (*entity.DraftSession, error) {
	candidate, err := uc.Candidates.FindByID(ctx, userID, candidateID)
	if err != nil {
		return nil, storeError(err)
	}

	contacts, err := uc.Contacts.ActiveContacts(ctx, userID, candidate.ClientListID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, validationFailed([]ValidationError{{"contacts", "the client list has no active contacts"}})
	}

	draft, err := uc.Gateway.GenerateDraft(ctx, automation.DraftRequest{
		CandidateName: candidate.CandidateName,
		KeynotesFile:  candidate.KeynotesURL,
		Contacts:      contacts,
	})
	if err != nil {
		uc.Logger.Error("draft generation failed",
			zap.String("candidate_id", candidate.ID),
			zap.Error(err),
		)
		return nil, gatewayError(err)
	}

	if len(draft.Contacts) == 0 {
		draft.Contacts = contacts
	}

	session := uc.Drafts.Save(&entity.DraftSession{
		UserID:        userID,
		CandidateID:   candidate.ID,
		CandidateName: candidate.CandidateName,
		Subject:       draft.Subject,
		HTML:          draft.Body,
		Contacts:      draft.Contacts,
	})

	uc.Logger.Info("draft generated",
		zap.String("draft_id", session.ID),
		zap.String("candidate_id", candidate.ID),
		zap.String("summary", htmlutil.Summary(session.HTML, 80)),
	)
	return session, nil
}

func (uc *DraftGenerationUseCase) Get(ctx context.Context, userID, draftID string) (*entity.DraftSession, error) {
	s, err := uc.Drafts.Get(userID, draftID)
	if err != nil {
		return nil, storeError(err)
	}
	return s, nil
}
