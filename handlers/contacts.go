package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contacts-provider/datastores"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID ds.ContactID `json:"id" readOnly:"true"`

	Name    string `json:"name"    example:"Derrick"`
	Address string `json:"address" example:"Hong Kong"`
}

func contactModel(c *ds.Contact) ContactModel {
	return ContactModel{ID: c.ID, Name: c.Name, Address: c.Address}
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "",
		storeOperation(h.list, h.ErrorHandler),
		withErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, contactModel(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

type ContactOutput struct {
	Body ContactModel
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		storeOperation(h.get, h.ErrorHandler),
		withErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to get"`
}) (*ContactOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterPost(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "",
		storeOperation(h.post, h.ErrorHandler),
		withErrors(http.StatusUnprocessableEntity, http.StatusInternalServerError),
		withStatus(http.StatusCreated),
	)
}

func (h *Contacts) post(ctx context.Context, input *struct {
	Body ContactModel
}) (*ContactOutput, error) {
	contact, err := h.Store.Save(ctx, ds.NewContact(input.Body.Name, input.Body.Address))
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		storeOperation(h.put, h.ErrorHandler),
		withErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" doc:"ID of the contact to replace"`
	Body ContactModel
}) (*ContactOutput, error) {
	contact, err := h.Store.Save(ctx, &ds.Contact{
		ID:      input.ID,
		Name:    input.Body.Name,
		Address: input.Body.Address,
	})
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		storeOperation(h.del, h.ErrorHandler),
		withErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, h.Store.Delete(ctx, input.ID)
}
