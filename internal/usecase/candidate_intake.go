package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

const DefaultRedirectAfter = 2 * time.Second

// Next step handed back after a submission.
const NextSelectClients = "select_clients"

type CandidateIntakeUseCase struct {
	Lists         entity.ClientListRepositoryInterface
	Candidates    entity.CandidateRepositoryInterface
	Cleanups      entity.PendingCleanupRepositoryInterface
	Storage       ObjectStore
	RedirectAfter time.Duration
	Logger        *zap.Logger
}

func NewCandidateIntakeUseCase(
	lists entity.ClientListRepositoryInterface,
	candidates entity.CandidateRepositoryInterface,
	cleanups entity.PendingCleanupRepositoryInterface,
	storage ObjectStore,
	redirectAfter time.Duration,
	logger *zap.Logger,
) *CandidateIntakeUseCase {
	if redirectAfter <= 0 {
		redirectAfter = DefaultRedirectAfter
	}
	return &CandidateIntakeUseCase{
		Lists:         lists,
		Candidates:    candidates,
		Cleanups:      cleanups,
		Storage:       storage,
		RedirectAfter: redirectAfter,
		Logger:        logger,
	}
}

// State tells the intake screen whether a form can be shown at all.
func (uc *CandidateIntakeUseCase) State(ctx context.Context, userID string) (*IntakeState, error) {
	lists, err := uc.Lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if len(lists) == 0 {
		return &IntakeState{State: StateNoListsYet, Lists: lists}, nil
	}
	return &IntakeState{State: StateEditing, Lists: lists}, nil
}

func (uc *CandidateIntakeUseCase) ValidateDocument(filename, declaredType string, head []byte) (string, error) {
	ext, errs := ValidateDocument(filename, declaredType, head)
	if len(errs) > 0 {
		return "", validationFailed(errs)
	}
	return ext, nil
}

// Submit uploads the optional document and records the candidate. If the
// insert fails the upload is deleted again, and if that fails too the object
// is queued for the orphan sweeper.
func (uc *CandidateIntakeUseCase) Submit(ctx context.Context, userID string, in SubmitCandidateInput) (*SubmitCandidateOutput, error) {
	count, err := uc.Lists.CountByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if count == 0 {
		return nil, &DomainError{
			Code:    CodeNoClientLists,
			Message: "create a client list before adding candidates",
		}
	}

	errs := minLength(nil, "candidate_name", in.Name, 2)
	if in.ListID == "" {
		errs = append(errs, ValidationError{"client_list_id", "is required"})
	}
	var ext string
	if in.File != nil {
		var docErrs []ValidationError
		ext, docErrs = ValidateDocument(in.File.Filename, in.File.ContentType, in.File.Body)
		errs = append(errs, docErrs...)
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if _, err := uc.Lists.FindByID(ctx, userID, in.ListID); err != nil {
		return nil, storeError(err)
	}

	var (
		key       string
		publicURL string
		candidate *entity.Candidate
	)

	tx := NewTransaction(uc.Logger)
	if in.File != nil {
		key = fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)

		tx.AddOperation("upload keynotes", func(ctx context.Context) error {
			if err := uc.Storage.Upload(ctx, key, documentContentType(ext), in.File.Body); err != nil {
				return &TechnicalError{Code: CodeStoreError, Message: err.Error(), Err: err}
			}
			publicURL = uc.Storage.PublicURL(key)
			return nil
		})
		tx.AddCompensation("delete keynotes", func(ctx context.Context) error {
			return uc.discardUpload(ctx, key)
		})
	}

	tx.AddOperation("insert candidate", func(ctx context.Context) error {
		candidate = entity.NewCandidate(userID, in.Name, in.ListID, publicURL)
		if err := uc.Candidates.Create(ctx, candidate); err != nil {
			return storeError(err)
		}
		return nil
	})

	if err := tx.Execute(ctx); err != nil {
		uc.Logger.Error("candidate submission failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Logger.Info("candidate submitted",
		zap.String("candidate_id", candidate.ID),
		zap.Bool("with_keynotes", candidate.KeynotesURL != nil),
	)

	return &SubmitCandidateOutput{
		State:     StateSubmitted,
		Candidate: candidate,
		NextStep: NextStep{
			Action:      NextSelectClients,
			CandidateID: candidate.ID,
			ListID:      candidate.ClientListID,
		},
		RedirectAfterMS: uc.RedirectAfter.Milliseconds(),
	}, nil
}

func (uc *CandidateIntakeUseCase) discardUpload(ctx context.Context, key string) error {
	bucket := uc.Storage.Bucket()
	// The request context may already be gone when the insert failed on it.
	ctx = context.WithoutCancel(ctx)

	delErr := uc.Storage.Delete(ctx, bucket, key)
	if delErr == nil {
		return nil
	}

	p := entity.NewPendingCleanup(bucket, key, "candidate insert failed")
	p.LastError = delErr.Error()
	if err := uc.Cleanups.Create(ctx, p); err != nil {
		return fmt.Errorf("delete upload: %v; record cleanup: %w", delErr, err)
	}
	uc.Logger.Warn("upload left for the orphan sweeper",
		zap.String("key", key),
		zap.Error(delErr),
	)
	return nil
}

// Latest returns the most recently submitted candidate.
func (uc *CandidateIntakeUseCase) Latest(ctx context.Context, userID string) (*entity.Candidate, error) {
	c, err := uc.Candidates.FindLatest(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return c, nil
}

func (uc *CandidateIntakeUseCase) Get(ctx context.Context, userID, id string) (*entity.Candidate, error) {
	c, err := uc.Candidates.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return c, nil
}

func (uc *CandidateIntakeUseCase) List(ctx context.Context, userID string) ([]*entity.Candidate, error) {
	cs, err := uc.Candidates.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return cs, nil
}
