// Package web wires the HTTP surface of the to-do list: the HTML form
// flows, the task endpoints and the JSON read API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/nhihnguyen/to-do-calendar/auth"
	authapi "github.com/nhihnguyen/to-do-calendar/auth/api"
	"github.com/nhihnguyen/to-do-calendar/internal/logutil"
	"github.com/nhihnguyen/to-do-calendar/tasks"
)

type (
	App struct {
		users  *auth.Users
		tokens auth.TokenStore
		tasks  *tasks.Store
		realm  *authapi.SecurityRealm
	}
)

// Form messages shown to the user. Everything unexpected collapses into
// msgInternal, internal detail stays in the logs.
const (
	msgAllFieldsRequired = "all fields are required"
	msgPasswordMismatch  = "password must match"
	msgUsernameTaken     = "username already taken"
	msgBadCredentials    = "username or password incorrect"
	msgInternal          = "something went wrong"
)

func NewApp(users *auth.Users, tokens auth.TokenStore, taskStore *tasks.Store, realm *authapi.SecurityRealm) *App {
	return &App{
		users:  users,
		tokens: tokens,
		tasks:  taskStore,
		realm:  realm,
	}
}

// Handler builds the full route table. Every request goes through the
// session resolver before reaching a handler.
func (a *App) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc("GET", "/", a.home)
	router.HandlerFunc("GET", "/register", a.registerForm)
	router.HandlerFunc("POST", "/register", a.register)
	router.HandlerFunc("GET", "/login", a.loginForm)
	router.HandlerFunc("POST", "/login", a.login)
	router.HandlerFunc("GET", "/logout", a.logout)
	router.HandlerFunc("POST", "/tasks", a.createTask)
	router.Handler("GET", "/api/tasks", a.realm.Protect(http.HandlerFunc(a.listTasksJSON)))
	return a.realm.Attach(router)
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	who, ok := authapi.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	list, err := a.tasks.ListByUser(r.Context(), who.UserID)
	if err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("Unable to list tasks")
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, "home.html", homeView{User: who.Username, Tasks: list})
}

func (a *App) registerForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := authapi.IdentityFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, r, http.StatusOK, "register.html", formView{})
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "login.html", formView{})
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, "register.html", formView{Error: msgAllFieldsRequired})
		return
	}
	input := auth.RegisterInput{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	token, _, err := auth.Register(r.Context(), a.users, a.tokens, input)
	if err != nil {
		status, msg := registerFailure(err)
		if status == http.StatusInternalServerError {
			logger := logutil.GetOrDefault(r.Context())
			logger.Error().Err(err).Msg("Registration failed")
		}
		render(w, r, status, "register.html", formView{Error: msg})
		return
	}
	a.realm.SetSession(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func registerFailure(err error) (int, string) {
	var conflict auth.ConflictError
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return http.StatusBadRequest, msgAllFieldsRequired
	case errors.Is(err, auth.ErrPasswordMismatch):
		return http.StatusBadRequest, msgPasswordMismatch
	case errors.As(err, &conflict):
		return http.StatusConflict, msgUsernameTaken
	}
	return http.StatusInternalServerError, msgInternal
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, "login.html", formView{Error: msgAllFieldsRequired})
		return
	}
	input := auth.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	token, _, err := auth.Login(r.Context(), a.users, a.tokens, input)
	if err != nil {
		status, msg := loginFailure(err)
		if status == http.StatusInternalServerError {
			logger := logutil.GetOrDefault(r.Context())
			logger.Error().Err(err).Msg("Login failed")
		}
		render(w, r, status, "login.html", formView{Error: msg})
		return
	}
	a.realm.SetSession(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return http.StatusBadRequest, msgAllFieldsRequired
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgBadCredentials
	}
	return http.StatusInternalServerError, msgInternal
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	a.realm.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (a *App) createTask(w http.ResponseWriter, r *http.Request) {
	who, ok := authapi.IdentityFrom(r.Context())
	if !ok {
		// anonymous task creation bounces back with no side effect
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_, err := a.tasks.Create(r.Context(), who.UserID, r.PostFormValue("tasks"))
	if err != nil && !errors.Is(err, tasks.ErrEmptyDescription) {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("Unable to create task")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) listTasksJSON(w http.ResponseWriter, r *http.Request) {
	who, _ := authapi.IdentityFrom(r.Context())
	list, err := a.tasks.ListByUser(r.Context(), who.UserID)
	if err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("Unable to list tasks")
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	type taskJSON struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Done        bool   `json:"done"`
	}
	out := struct {
		User  string     `json:"user"`
		Tasks []taskJSON `json:"tasks"`
	}{User: who.Username, Tasks: []taskJSON{}}
	for _, t := range list {
		out.Tasks = append(out.Tasks, taskJSON{ID: t.ID, Description: t.Description, Done: t.Done})
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(out)
}
