package main

import (
	"io/fs"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)
	// enableCORS answers preflight requests before they reach the router
	router.HandleOPTIONS = false

	router.HandlerFunc(http.MethodGet, "/api/v1/healthcheck", app.healthCheckHandler)

	// auth
	router.HandlerFunc(http.MethodPost, "/api/v1/auth/session", app.createSessionHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/auth/me", app.requireAuthUser(app.currentUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/v1/auth/logout", app.logoutHandler)

	// blogs
	router.HandlerFunc(http.MethodGet, "/api/v1/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/v1/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/v1/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPost, "/api/v1/blogs/:id/like", app.requireAuthUser(app.toggleLikeHandler))
	router.HandlerFunc(http.MethodGet, "/api/v1/blogs/:id/liked", app.requireAuthUser(app.likedHandler))
	router.HandlerFunc(http.MethodPost, "/api/v1/blogs/:id/comments", app.requireAuthUser(app.addCommentHandler))
	router.HandlerFunc(http.MethodGet, "/api/v1/blogs/:id/comments", app.listCommentsHandler)

	// users
	router.HandlerFunc(http.MethodPut, "/api/v1/users/profile", app.requireAuthUser(app.updateProfileHandler))
	router.HandlerFunc(http.MethodGet, "/api/v1/users/:username", app.getProfileHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/users/:username/blogs", app.listUserBlogsHandler)

	if app.uploads != nil {
		router.ServeFiles("/uploads/*filepath", filesOnly{http.Dir(app.uploads.Dir())})
	}

	return app.recoverPanic(app.enableCORS(app.logRequest(app.authenticate(router))))
}

// filesOnly serves regular files and reports directories as missing, so upload folders are
// never listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
