package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/recruitica/internal/infra/memory"
)

func TestAddOrAttachDedupsByEmail(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l1 := mustList(t, store, userID, "Fintech")
	l2 := mustList(t, store, userID, "Banks")

	first, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Jane Doe", Email: "Jane@Acme.io ", Company: "Acme", ListID: l1.ID})
	require.NoError(t, err)
	assert.True(t, first.ClientCreated)
	assert.Equal(t, "jane@acme.io", first.Client.Email)
	assert.True(t, first.Entry.IsActive)

	second, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Jane D.", Email: "jane@acme.io", Company: "Acme Corp", ListID: l2.ID})
	require.NoError(t, err)
	assert.False(t, second.ClientCreated)
	assert.Equal(t, first.Client.ID, second.Client.ID)

	for _, l := range []string{l1.ID, l2.ID} {
		clients, err := uc.ListClients(ctx, userID, l)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, first.Client.ID, clients[0].ID)
	}
}

func TestAddOrAttachDuplicateInList(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, userID, "Fintech")

	in := AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l.ID}
	_, err := uc.AddOrAttach(ctx, userID, in)
	require.NoError(t, err)

	_, err = uc.AddOrAttach(ctx, userID, in)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, CodeDuplicateInList, ErrorCode(err))

	clients, err := uc.ListClients(ctx, userID, l.ID)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestAddOrAttachValidation(t *testing.T) {
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, userID, "Fintech")

	_, err := uc.AddOrAttach(t.Context(), userID, AddClientInput{Name: "J", Email: "not-an-email", Company: "A", ListID: l.ID})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, ErrorCode(err))

	var de *DomainError
	require.True(t, errors.As(err, &de))
	fields := []string{}
	for _, f := range de.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "company"}, fields)
}

func TestAddOrAttachForeignList(t *testing.T) {
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, otherUser, "Theirs")

	_, err := uc.AddOrAttach(t.Context(), userID, AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l.ID})
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestToggleTwiceRestoresState(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, userID, "Fintech")
	added, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l.ID})
	require.NoError(t, err)

	out, err := uc.ToggleActive(ctx, userID, added.Client.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	contacts, err := uc.ActiveContacts(ctx, userID, l.ID)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	out, err = uc.ToggleActive(ctx, userID, added.Client.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	_, err = uc.ToggleActive(ctx, userID, "missing", l.ID)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestRemoveThenReAdd(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, userID, "Fintech")
	in := AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l.ID}

	first, err := uc.AddOrAttach(ctx, userID, in)
	require.NoError(t, err)
	require.NoError(t, uc.Remove(ctx, userID, first.Client.ID, l.ID))

	clients, err := uc.ListClients(ctx, userID, l.ID)
	require.NoError(t, err)
	assert.Empty(t, clients)

	again, err := uc.AddOrAttach(ctx, userID, in)
	require.NoError(t, err)
	assert.Equal(t, first.Client.ID, again.Client.ID)
	assert.NotEqual(t, first.Entry.ID, again.Entry.ID)
	assert.False(t, again.ClientCreated)
}

func TestSearchExcludesListMembers(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l1 := mustList(t, store, userID, "Fintech")
	l2 := mustList(t, store, userID, "Banks")

	_, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l1.ID})
	require.NoError(t, err)
	_, err = uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Bob Stone", Email: "bob@globex.io", Company: "Globex", ListID: l2.ID})
	require.NoError(t, err)

	found, err := uc.Search(ctx, userID, "", l1.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob Stone", found[0].Name)

	found, err = uc.Search(ctx, userID, "ACME", l2.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jane Doe", found[0].Name)
}

func TestBatchAttachIsAtomic(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := newDirectory(store)
	l1 := mustList(t, store, userID, "Fintech")
	l2 := mustList(t, store, userID, "Banks")

	jane, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l1.ID})
	require.NoError(t, err)
	bob, err := uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Bob Stone", Email: "bob@globex.io", Company: "Globex", ListID: l1.ID})
	require.NoError(t, err)
	_, err = uc.AddOrAttach(ctx, userID, AddClientInput{Name: "Bob Stone", Email: "bob@globex.io", Company: "Globex", ListID: l2.ID})
	require.NoError(t, err)

	_, err = uc.BatchAttach(ctx, userID, l2.ID, []string{jane.Client.ID, bob.Client.ID})
	assert.Equal(t, CodeDuplicateInList, ErrorCode(err))

	clients, err := uc.ListClients(ctx, userID, l2.ID)
	require.NoError(t, err)
	assert.Len(t, clients, 1, "no entry is written when one conflicts")

	l3 := mustList(t, store, userID, "Insurers")
	entries, err := uc.BatchAttach(ctx, userID, l3.ID, []string{jane.Client.ID, bob.Client.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = uc.BatchAttach(ctx, userID, l3.ID, nil)
	assert.Equal(t, CodeValidation, ErrorCode(err))
}

func TestStoreErrorsKeepMessage(t *testing.T) {
	store := memory.NewStore()
	uc := newDirectory(store)
	l := mustList(t, store, userID, "Fintech")
	store.Err = errors.New(`duplicate key value violates unique constraint "clients_user_email"`)

	_, err := uc.AddOrAttach(t.Context(), userID, AddClientInput{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme", ListID: l.ID})
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, CodeStoreError, ErrorCode(err))
	assert.Equal(t, store.Err.Error(), err.Error())
}

func TestClientLists(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uc := NewClientListsUseCase(store.ClientLists())

	_, err := uc.Create(ctx, userID, CreateClientListInput{Name: "x"})
	assert.Equal(t, CodeValidation, ErrorCode(err))

	l, err := uc.Create(ctx, userID, CreateClientListInput{Name: "Fintech", Description: "  "})
	require.NoError(t, err)
	assert.Nil(t, l.Description)

	lists, err := uc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	_, err = uc.Get(ctx, otherUser, l.ID)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}
