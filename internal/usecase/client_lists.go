package usecase

import (
	"context"

	"github.com/xavierca1/recruitica/internal/entity"
)

type ClientListsUseCase struct {
	Repo entity.ClientListRepositoryInterface
}

func NewClientListsUseCase(repo entity.ClientListRepositoryInterface) *ClientListsUseCase {
	return &ClientListsUseCase{Repo: repo}
}

func (uc *ClientListsUseCase) Create(ctx context.Context, userID string, in CreateClientListInput) (*entity.ClientList, error) {
	if errs := minLength(nil, "name", in.Name, 2); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	l := entity.NewClientList(userID, in.Name, in.Description)
	if err := uc.Repo.Create(ctx, l); err != nil {
		return nil, storeError(err)
	}
	return l, nil
}

// List returns the user's lists, newest first.
func (uc *ClientListsUseCase) List(ctx context.Context, userID string) ([]*entity.ClientList, error) {
	lists, err := uc.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return lists, nil
}

func (uc *ClientListsUseCase) Get(ctx context.Context, userID, id string) (*entity.ClientList, error) {
	l, err := uc.Repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return l, nil
}
