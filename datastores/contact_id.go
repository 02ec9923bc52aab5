package datastores

import (
	"database/sql/driver"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ContactID is a [uuid.UUID] that uses [base64.RawURLEncoding]
// to marshal to and from text.
//
// The zero value means the contact has not been persisted yet.
type ContactID uuid.UUID

// contactIDEncoding rejects non-zero trailing bits so each ID has exactly one text form.
var (
	contactIDEncoding   = base64.RawURLEncoding.Strict()                 //nolint: gochecknoglobals,nolintlint
	contactIDEncodedLen = contactIDEncoding.EncodedLen(len(ContactID{})) //nolint: gochecknoglobals,nolintlint
)

// newContactID returns a time-ordered identifier.
func newContactID() ContactID { return ContactID(uuid.Must(uuid.NewV7())) }

// ParseContactID decodes the text form of a [ContactID].
func ParseContactID(s string) (ContactID, error) {
	var id ContactID
	return id, id.UnmarshalText([]byte(s))
}

func (id ContactID) IsZero() bool { return id == ContactID{} }

func (id ContactID) String() string {
	return contactIDEncoding.EncodeToString(id[:])
}

// AppendText implements [encoding.TextAppender].
func (id ContactID) AppendText(b []byte) ([]byte, error) {
	return contactIDEncoding.AppendEncode(b, id[:]), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (id ContactID) MarshalText() ([]byte, error) {
	return id.AppendText(nil)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// The receiver is left untouched on error.
func (id *ContactID) UnmarshalText(b []byte) error {
	if len(b) != contactIDEncodedLen {
		return errors.New("invalid length")
	}
	var decoded ContactID
	if _, err := contactIDEncoding.Decode(decoded[:], b); err != nil {
		return errors.Wrap(err, "invalid encoding")
	}
	*id = decoded
	return nil
}

// Value implements [driver.Valuer].
func (id ContactID) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan implements [sql.Scanner].
func (id *ContactID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	default:
		return errors.Errorf("cannot scan %T into ContactID", src)
	}
}
