package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/recruitica/internal/entity"
)

const DefaultSearchLimit = 50

type ClientDirectoryUseCase struct {
	Lists       entity.ClientListRepositoryInterface
	Clients     entity.ClientRepositoryInterface
	Entries     entity.ClientListEntryRepositoryInterface
	SearchLimit int
}

func NewClientDirectoryUseCase(
	lists entity.ClientListRepositoryInterface,
	clients entity.ClientRepositoryInterface,
	entries entity.ClientListEntryRepositoryInterface,
	searchLimit int,
) *ClientDirectoryUseCase {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &ClientDirectoryUseCase{
		Lists:       lists,
		Clients:     clients,
		Entries:     entries,
		SearchLimit: searchLimit,
	}
}

// ownedList fails with NOT_FOUND unless userID owns listID.
func (uc *ClientDirectoryUseCase) ownedList(ctx context.Context, userID, listID string) error {
	if strings.TrimSpace(listID) == "" {
		return validationFailed([]ValidationError{{"list_id", "is required"}})
	}
	if _, err := uc.Lists.FindByID(ctx, userID, listID); err != nil {
		return storeError(err)
	}
	return nil
}

// Search finds the user's clients not yet entered in listID. An empty query
// matches every client.
func (uc *ClientDirectoryUseCase) Search(ctx context.Context, userID, query, listID string) ([]*entity.Client, error) {
	if err := uc.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	clients, err := uc.Clients.Search(ctx, userID, strings.TrimSpace(query), listID, uc.SearchLimit)
	if err != nil {
		return nil, storeError(err)
	}
	return clients, nil
}

// AddOrAttach creates the client if its email is new for this user and adds
// it to the list as an active entry. Adding a client twice to the same list
// fails with DUPLICATE_IN_LIST and writes nothing.
func (uc *ClientDirectoryUseCase) AddOrAttach(ctx context.Context, userID string, in AddClientInput) (*AddClientOutput, error) {
	if errs := ValidateClientInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	res, err := uc.Clients.AttachByEmail(ctx, in.ListID, entity.NewClient(userID, in.Name, in.Email, in.Company))
	if err != nil {
		return nil, storeError(err)
	}
	return &AddClientOutput{
		Client:        res.Client,
		Entry:         res.Entry,
		ClientCreated: res.ClientCreated,
	}, nil
}

func (uc *ClientDirectoryUseCase) ToggleActive(ctx context.Context, userID, clientID, listID string) (*ToggleOutput, error) {
	if err := uc.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	active, err := uc.Entries.Toggle(ctx, listID, clientID)
	if err != nil {
		return nil, storeError(err)
	}
	return &ToggleOutput{ClientID: clientID, IsActive: active}, nil
}

// Remove deletes the list entry only. The client stays in the directory.
func (uc *ClientDirectoryUseCase) Remove(ctx context.Context, userID, clientID, listID string) error {
	if err := uc.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	if err := uc.Entries.Delete(ctx, listID, clientID); err != nil {
		return storeError(err)
	}
	return nil
}

// BatchAttach adds existing clients to a list. Either every entry is created
// or none is.
func (uc *ClientDirectoryUseCase) BatchAttach(ctx context.Context, userID, listID string, clientIDs []string) ([]*entity.ClientListEntry, error) {
	if len(clientIDs) == 0 {
		return nil, validationFailed([]ValidationError{{"client_ids", "must not be empty"}})
	}
	if err := uc.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	entries, err := uc.Entries.BatchCreate(ctx, listID, clientIDs)
	if err != nil {
		return nil, storeError(err)
	}
	return entries, nil
}

func (uc *ClientDirectoryUseCase) ListClients(ctx context.Context, userID, listID string) ([]*entity.ListedClient, error) {
	if err := uc.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	clients, err := uc.Entries.ListClients(ctx, listID)
	if err != nil {
		return nil, storeError(err)
	}
	return clients, nil
}

// ActiveContacts returns the outreach contacts of the list: active entries only.
func (uc *ClientDirectoryUseCase) ActiveContacts(ctx context.Context, userID, listID string) ([]entity.Contact, error) {
	clients, err := uc.ListClients(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return entity.ContactsFrom(clients), nil
}
