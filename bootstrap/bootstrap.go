// Package bootstrap seeds a contacts store with demo records at startup.
package bootstrap

import (
	"context"
	_ "embed" // for contacts.yaml
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/oaiiae/contacts-provider/datastores"
)

//go:embed contacts.yaml
var contactsYAML []byte

type contactEntry struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Contacts returns the demo contacts in seeding order.
func Contacts() ([]*datastores.Contact, error) {
	var entries []contactEntry
	if err := yaml.Unmarshal(contactsYAML, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to decode embedded contacts")
	}
	contacts := make([]*datastores.Contact, 0, len(entries))
	for _, e := range entries {
		contacts = append(contacts, datastores.NewContact(e.Name, e.Address))
	}
	return contacts, nil
}

// Seed saves contacts into store in order.
// The first failure aborts the remaining contacts. Nothing is retried or rolled back.
func Seed(ctx context.Context, store datastores.ContactsStore, logger *slog.Logger, contacts ...*datastores.Contact) error {
	for i, c := range contacts {
		saved, err := store.Save(ctx, c)
		if err != nil {
			return errors.Wrapf(err, "failed to seed contact %d/%d (%s)", i+1, len(contacts), c.Name)
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "contact seeded",
			slog.String("id", saved.ID.String()),
			slog.String("name", saved.Name),
		)
	}
	return nil
}
