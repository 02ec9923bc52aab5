package datastores

import (
	"context"

	"github.com/pkg/errors"
)

type Contact struct {
	ID      ContactID
	Name    string
	Address string
}

// NewContact returns a contact that has not been persisted yet.
func NewContact(name, address string) *Contact {
	return &Contact{Name: name, Address: address}
}

// ContactsStore is the persistence contract for contacts.
//
// Save inserts c when its ID is zero and assigns a new ID,
// otherwise it replaces the record with the same ID.
// Get, Save and Delete return [ErrObjectNotFound] for unknown IDs.
// Errors are returned as [*OpError].
// List returns contacts in insertion order.
type ContactsStore interface {
	Save(ctx context.Context, c *Contact) (*Contact, error)
	List(ctx context.Context) ([]*Contact, error)
	Get(ctx context.Context, id ContactID) (*Contact, error)
	Delete(ctx context.Context, id ContactID) error
}

var ErrObjectNotFound = errors.New("store: object not found")

// OpError records the store operation and the contact it failed on.
// ID is zero for operations not bound to a single contact.
type OpError struct {
	Op  string
	ID  ContactID
	Err error
}

func (e *OpError) Error() string {
	if e.ID.IsZero() {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.ID.String() + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, id ContactID, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, ID: id, Err: err}
}
