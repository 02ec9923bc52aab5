package datastores

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const contactsSchema = `CREATE TABLE IF NOT EXISTS contact (
	id      TEXT PRIMARY KEY NOT NULL,
	name    TEXT NOT NULL,
	address TEXT NOT NULL
)`

// ContactsSQLite implements [ContactsStore] on a SQLite database.
// Insertion order is kept by the implicit rowid of the contact table.
type ContactsSQLite struct {
	db *sql.DB
}

var _ ContactsStore = (*ContactsSQLite)(nil)

// OpenContactsSQLite opens the database at dsn and creates the contact table if missing.
// The pool is limited to one connection so that ":memory:" databases are shared.
func OpenContactsSQLite(ctx context.Context, dsn string) (*ContactsSQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database: %s", dsn)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, contactsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create contact table")
	}
	return &ContactsSQLite{db: db}, nil
}

func (s *ContactsSQLite) Ping(ctx context.Context) error {
	return errors.Wrap(s.db.PingContext(ctx), "sqlite ping")
}

func (s *ContactsSQLite) Close() error {
	return s.db.Close()
}

func (s *ContactsSQLite) Save(ctx context.Context, c *Contact) (*Contact, error) {
	saved := *c
	if saved.ID.IsZero() {
		saved.ID = newContactID()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO contact (id, name, address) VALUES (?, ?, ?)`,
			saved.ID, saved.Name, saved.Address)
		if err != nil {
			return nil, opError("insert", saved.ID, errors.Wrap(err, "sqlite exec"))
		}
		return &saved, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE contact SET name = ?, address = ? WHERE id = ?`,
		saved.Name, saved.Address, saved.ID)
	if err == nil {
		err = affectedOne(res)
	}
	if err != nil {
		return nil, opError("update", saved.ID, err)
	}
	return &saved, nil
}

func (s *ContactsSQLite) List(ctx context.Context) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, address FROM contact ORDER BY rowid`)
	if err != nil {
		return nil, opError("list", ContactID{}, errors.Wrap(err, "sqlite query"))
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var c Contact
		if err = rows.Scan(&c.ID, &c.Name, &c.Address); err != nil {
			return nil, opError("list", ContactID{}, errors.Wrap(err, "sqlite scan"))
		}
		contacts = append(contacts, &c)
	}
	return contacts, opError("list", ContactID{}, errors.Wrap(rows.Err(), "sqlite rows"))
}

func (s *ContactsSQLite) Get(ctx context.Context, id ContactID) (*Contact, error) {
	var c Contact
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, address FROM contact WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Address)
	switch {
	case err == nil:
		return &c, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, opError("get", id, ErrObjectNotFound)
	default:
		return nil, opError("get", id, errors.Wrap(err, "sqlite query"))
	}
}

func (s *ContactsSQLite) Delete(ctx context.Context, id ContactID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact WHERE id = ?`, id)
	if err == nil {
		err = affectedOne(res)
	}
	return opError("delete", id, err)
}

// affectedOne returns [ErrObjectNotFound] when res changed no row.
func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "sqlite rows affected")
	}
	if n == 0 {
		return ErrObjectNotFound
	}
	return nil
}
