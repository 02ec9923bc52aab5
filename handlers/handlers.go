package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contacts-provider/datastores"
)

type operation[I, O any] = func(context.Context, *I) (*O, error)

// storeOperation reports errors returned by op to report, before
// turning them into HTTP errors: [ds.ErrObjectNotFound] becomes 404,
// anything else is left to huma which answers 500.
func storeOperation[I, O any](op operation[I, O], report func(context.Context, error)) operation[I, O] {
	return func(ctx context.Context, i *I) (*O, error) {
		o, err := op(ctx, i)
		if err == nil {
			return o, nil
		}
		if report != nil {
			report(ctx, err)
		}
		if errors.Is(err, ds.ErrObjectNotFound) {
			return nil, huma.Error404NotFound("contact not found")
		}
		return nil, err
	}
}

// withErrors documents the error statuses of an operation.
func withErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

func withStatus(code int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.DefaultStatus = code }
}
