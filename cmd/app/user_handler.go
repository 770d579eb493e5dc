package main

import (
	"net/http"
	"time"

	"github.com/sushihentaime/nightblog/internal/userservice"
)

func sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(userservice.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// createSessionHandler exchanges the identity provider session id for a session token, set as
// a cookie and returned in the body for bearer clients.
func (app *application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	res, err := app.userService.CreateSession(r.Context(), r.PostFormValue("session_id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	http.SetCookie(w, sessionCookie(res.Token, res.ExpiresAt))

	env := envelope{"user": res.User, "session_token": res.Token, "expires_at": res.ExpiresAt}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// logoutHandler deletes the session of the presented credential, if any, and expires the
// cookie. It succeeds for anonymous callers too.
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	err := app.userService.Logout(r.Context(), app.extractToken(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.SetCookie(w, expiredSessionCookie())

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getProfileHandler returns the public profile and the published blogs of a user.
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readParam(r, "username")

	user, err := app.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	blogs, err := app.blogService.ListPublishedUserBlogs(r.Context(), user.Username)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	picture, err := app.readFormFile(r, "profile_picture")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := &userservice.UpdateProfileRequest{
		Bio:        r.PostFormValue("bio"),
		ThemeColor: r.PostFormValue("theme_color"),
		Picture:    picture,
	}

	user, err := app.userService.UpdateProfile(r.Context(), app.getUserContext(r), req)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listUserBlogsHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readParam(r, "username")

	blogs, err := app.blogService.ListUserBlogs(r.Context(), username, app.getUserContext(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
