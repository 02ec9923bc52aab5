package datastores_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ds "github.com/oaiiae/contacts-provider/datastores"
)

func stores(t *testing.T) map[string]func() ds.ContactsStore {
	t.Helper()
	return map[string]func() ds.ContactsStore{
		"inmem": func() ds.ContactsStore { return ds.NewContactsInmem() },
		"sqlite": func() ds.ContactsStore {
			s, err := ds.OpenContactsSQLite(t.Context(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestContactsStore(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("SaveThenGet", func(t *testing.T) { testSaveThenGet(t, newStore()) })
			t.Run("SaveReplaces", func(t *testing.T) { testSaveReplaces(t, newStore()) })
			t.Run("SaveUnknownID", func(t *testing.T) { testSaveUnknownID(t, newStore()) })
			t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore()) })
			t.Run("Delete", func(t *testing.T) { testDelete(t, newStore()) })
			t.Run("DeleteUnknownID", func(t *testing.T) { testDeleteUnknownID(t, newStore()) })
			t.Run("OpError", func(t *testing.T) { testOpError(t, newStore()) })
		})
	}
}

func testSaveThenGet(t *testing.T, s ds.ContactsStore) {
	ctx := t.Context()
	in := ds.NewContact("Ann", "Oslo")

	saved, err := s.Save(ctx, in)
	require.NoError(t, err)
	assert.False(t, saved.ID.IsZero())
	assert.True(t, in.ID.IsZero(), "input must not be mutated")

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "Oslo", got.Address)
}

func testSaveReplaces(t *testing.T, s ds.ContactsStore) {
	ctx := t.Context()
	saved, err := s.Save(ctx, ds.NewContact("Ann", "Oslo"))
	require.NoError(t, err)
	_, err = s.Save(ctx, ds.NewContact("Bob", "Bergen"))
	require.NoError(t, err)

	replaced, err := s.Save(ctx, &ds.Contact{ID: saved.ID, Name: "Ann", Address: "Tromsø"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, replaced.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tromsø", got.Address)
}

func testSaveUnknownID(t *testing.T, s ds.ContactsStore) {
	id, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1A")
	require.NoError(t, err)

	_, err = s.Save(t.Context(), &ds.Contact{ID: id, Name: "Ann", Address: "Oslo"})
	require.ErrorIs(t, err, ds.ErrObjectNotFound)
}

func testListOrder(t *testing.T, s ds.ContactsStore) {
	ctx := t.Context()
	names := []string{"Derrick", "Hin", "Sean", "Peter", "James"}
	for _, name := range names {
		_, err := s.Save(ctx, ds.NewContact(name, "Hong Kong"))
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(all))
	for _, c := range all {
		got = append(got, c.Name)
	}
	assert.Equal(t, names, got)
}

func testDelete(t *testing.T, s ds.ContactsStore) {
	ctx := t.Context()
	first, err := s.Save(ctx, ds.NewContact("Ann", "Oslo"))
	require.NoError(t, err)
	second, err := s.Save(ctx, ds.NewContact("Bob", "Bergen"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))

	_, err = s.Get(ctx, first.ID)
	require.ErrorIs(t, err, ds.ErrObjectNotFound)

	got, err := s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func testOpError(t *testing.T, s ds.ContactsStore) {
	id, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1A")
	require.NoError(t, err)

	_, err = s.Get(t.Context(), id)
	var opErr *ds.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "get", opErr.Op)
	assert.Equal(t, id, opErr.ID)
	assert.ErrorIs(t, err, ds.ErrObjectNotFound)
	assert.EqualError(t, err, "get AZnZ7nK7dPKpaO2hWh2d1A: store: object not found")

	err = s.Delete(t.Context(), id)
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "delete", opErr.Op)
}

func testDeleteUnknownID(t *testing.T, s ds.ContactsStore) {
	ctx := t.Context()
	saved, err := s.Save(ctx, ds.NewContact("Ann", "Oslo"))
	require.NoError(t, err)

	id, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1A")
	require.NoError(t, err)
	require.ErrorIs(t, s.Delete(ctx, id), ds.ErrObjectNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*ds.Contact{saved}, all)
}

func TestContactsSQLiteClosed(t *testing.T) {
	s, err := ds.OpenContactsSQLite(t.Context(), ":memory:")
	require.NoError(t, err)
	saved, err := s.Save(t.Context(), ds.NewContact("Ann", "Oslo"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(t.Context(), saved.ID)
	var opErr *ds.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "get", opErr.Op)
	assert.Equal(t, saved.ID, opErr.ID)
	assert.NotErrorIs(t, err, ds.ErrObjectNotFound)

	_, err = s.List(t.Context())
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "list", opErr.Op)
	assert.True(t, opErr.ID.IsZero())
}

func TestContactsSQLitePing(t *testing.T) {
	s, err := ds.OpenContactsSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Ping(t.Context()))

	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(t.Context()))
}

func TestContactID(t *testing.T) {
	_, err := ds.ParseContactID("short")
	require.Error(t, err)

	saved, err := ds.NewContactsInmem().Save(t.Context(), ds.NewContact("Ann", "Oslo"))
	require.NoError(t, err)

	text, err := saved.ID.MarshalText()
	require.NoError(t, err)
	assert.Len(t, text, 22)
	assert.Equal(t, saved.ID.String(), string(text))

	parsed, err := ds.ParseContactID(string(text))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, parsed)
}

func TestContactIDCanonical(t *testing.T) {
	_, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1B")
	require.Error(t, err, "non-zero trailing bits must be rejected")

	id, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1A")
	require.NoError(t, err)
	assert.Equal(t, "AZnZ7nK7dPKpaO2hWh2d1A", id.String())
}

func TestContactIDUnmarshalFailureKeepsReceiver(t *testing.T) {
	var id ds.ContactID
	require.Error(t, id.UnmarshalText([]byte("AZnZ7nK7dPKpaO2hWh2d!!")))
	assert.True(t, id.IsZero())

	want, err := ds.ParseContactID("AZnZ7nK7dPKpaO2hWh2d1A")
	require.NoError(t, err)
	id = want
	require.Error(t, id.UnmarshalText([]byte("AZnZ7nK7dPKpaO2hWh2d!!")))
	assert.Equal(t, want, id)
}
