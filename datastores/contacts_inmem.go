package datastores

import (
	"context"
	"slices"
	"sync"
)

// ContactsInmem implements [ContactsStore].
type ContactsInmem struct {
	mu       sync.Mutex
	index    map[ContactID]int
	contacts []Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

// NewContactsInmem returns a store holding cs. Contacts without an ID get one.
func NewContactsInmem(cs ...*Contact) *ContactsInmem {
	s := &ContactsInmem{
		index:    make(map[ContactID]int, len(cs)),
		contacts: make([]Contact, 0, len(cs)),
	}
	for _, c := range cs {
		s.insert(*c)
	}
	return s
}

func (s *ContactsInmem) insert(c Contact) ContactID {
	for c.ID.IsZero() || s.has(c.ID) {
		c.ID = newContactID()
	}
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, c)
	return c.ID
}

func (s *ContactsInmem) has(id ContactID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *ContactsInmem) Save(_ context.Context, c *Contact) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID.IsZero() {
		saved := *c
		saved.ID = s.insert(saved)
		return &saved, nil
	}

	index, ok := s.index[c.ID]
	if !ok {
		return nil, opError("update", c.ID, ErrObjectNotFound)
	}
	s.contacts[index] = *c
	saved := *c
	return &saved, nil
}

func (s *ContactsInmem) List(_ context.Context) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := make([]*Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		contacts = append(contacts, &c)
	}
	return contacts, nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return nil, opError("get", id, ErrObjectNotFound)
	}
	c := s.contacts[index]
	return &c, nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return opError("delete", id, ErrObjectNotFound)
	}
	delete(s.index, id)
	s.contacts = slices.Delete(s.contacts, index, index+1)
	for i := index; i < len(s.contacts); i++ {
		s.index[s.contacts[i].ID] = i
	}
	return nil
}
