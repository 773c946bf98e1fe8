package main

import (
	"context"
	"net/http"

	"github.com/lazygardenertx/gardenlog/internal/adminservice"
)

type contextKey string

const adminContextKey = contextKey("admin")

func (app *application) createAdminContext(r *http.Request, admin *adminservice.Admin) *http.Request {
	ctx := context.WithValue(r.Context(), adminContextKey, admin)
	return r.WithContext(ctx)
}

func (app *application) getAdminContext(r *http.Request) *adminservice.Admin {
	admin, ok := r.Context().Value(adminContextKey).(*adminservice.Admin)
	if !ok {
		return nil
	}
	return admin
}
