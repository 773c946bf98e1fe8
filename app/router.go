package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// post service
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.getPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireAdmin(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:slug", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:slug", app.requireAdmin(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:slug", app.requireAdmin(app.deletePostHandler))

	// video service
	router.HandlerFunc(http.MethodGet, "/v1/videos", app.getVideosHandler)
	router.HandlerFunc(http.MethodGet, "/v1/videos/recent", app.getRecentVideosHandler)

	// admin service
	router.HandlerFunc(http.MethodPost, "/v1/admin/login", app.loginAdminHandler)
	router.HandlerFunc(http.MethodPost, "/v1/admin/logout", app.requireAdmin(app.logoutAdminHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
