package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/oaiiae/contacts-provider/bootstrap"
	"github.com/oaiiae/contacts-provider/datastores"
)

type StoreOptions struct {
	Datastore string `doc:"contacts datastore, sqlite or inmem"  default:"sqlite"`
	Database  string `doc:"sqlite data source name"              default:":memory:"`
	Seed      bool   `doc:"save demo contacts on startup"        default:"true"`
}

// NewContactsStore returns the store selected by options and a function releasing it.
func NewContactsStore(ctx context.Context, options *StoreOptions) (datastores.ContactsStore, func() error, error) {
	switch strings.ToLower(options.Datastore) {
	case "inmem":
		return datastores.NewContactsInmem(), func() error { return nil }, nil
	case "sqlite", "":
		store, err := datastores.OpenContactsSQLite(ctx, options.Database)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown datastore %q", options.Datastore)
	}
}

// SeedContactsStore saves the demo contacts into store when enabled by options.
func SeedContactsStore(ctx context.Context, options *StoreOptions, store datastores.ContactsStore, logger *slog.Logger) error {
	if !options.Seed {
		return nil
	}
	contacts, err := bootstrap.Contacts()
	if err != nil {
		return err
	}
	err = bootstrap.Seed(ctx, store, logger, contacts...)
	if err != nil {
		return err
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "contacts seeded", slog.Int("count", len(contacts)))
	return nil
}

// SeedOrClose seeds store like [SeedContactsStore]. On failure the store is
// released with closeStore, whose own error is logged, and the seeding error returned.
func SeedOrClose(
	ctx context.Context,
	options *StoreOptions,
	store datastores.ContactsStore,
	closeStore func() error,
	logger *slog.Logger,
) error {
	err := SeedContactsStore(ctx, options, store, logger)
	if err == nil {
		return nil
	}
	if cerr := closeStore(); cerr != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "could not close contacts store", slog.Any("err", cerr))
	}
	return err
}
