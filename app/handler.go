package main

import (
	"errors"
	"net/http"

	"github.com/lazygardenertx/gardenlog/internal/adminservice"
	"github.com/lazygardenertx/gardenlog/internal/common"
	"github.com/lazygardenertx/gardenlog/internal/postservice"
)

func (app *application) getPostsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := app.readLimitParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// admins also see drafts
	admin := app.getAdminContext(r)
	includeAllStatuses := !admin.IsAnonymous()

	posts, err := app.postService.GetPosts(r.Context(), includeAllStatuses, limit)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input postservice.CreatePostRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the post service
	post, err := app.postService.CreatePost(r.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrDuplicateSlug):
			app.badRequestErrorResponse(w, r, errors.New("a post with this slug already exists"))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := app.readSlugParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	admin := app.getAdminContext(r)
	includeAllStatuses := !admin.IsAnonymous()

	post, err := app.postService.GetPostBySlug(r.Context(), slug, includeAllStatuses)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// single post responses also carry the rendered content
	body := struct {
		*postservice.Post
		ContentHTML string `json:"content_html"`
	}{
		Post:        post,
		ContentHTML: postservice.RenderMarkdown(post.Content),
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": body}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := app.readSlugParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input postservice.UpdatePostRequest

	// Parse the request body
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the post service
	post, err := app.postService.UpdatePost(r.Context(), slug, &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrDuplicateSlug):
			app.badRequestErrorResponse(w, r, errors.New("a post with this slug already exists"))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := app.readSlugParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Deleting an absent post is reported, not an error
	deleted, err := app.postService.DeletePost(r.Context(), slug)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"deleted": deleted}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.videoService.GetVideos(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"videos": videos}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getRecentVideosHandler(w http.ResponseWriter, r *http.Request) {
	count, err := app.readCountParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	videos, err := app.videoService.GetRecentVideos(r.Context(), count)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"videos": videos}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginAdminHandler(w http.ResponseWriter, r *http.Request) {
	var input loginAdminRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the admin service
	session, err := app.adminService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, adminservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminservice.SessionCookieName,
		Value:    session.Plain,
		Path:     "/",
		Expires:  session.Expiry,
		HttpOnly: true,
		Secure:   app.config.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"session": session}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) logoutAdminHandler(w http.ResponseWriter, r *http.Request) {
	token := app.sessionTokenFromRequest(r)

	err := app.adminService.Logout(r.Context(), token)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminservice.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.config.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "admin logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
