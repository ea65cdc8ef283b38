package controller

import (
	"errors"
	"fmt"
	"net/http"

	"kanwiki/internal/auth"
	"kanwiki/internal/common"
	"kanwiki/internal/metrics"
)

// Signup results.
const (
	signupSuccess = "success"
	signupInvalid = "invalid"
	signupExists  = "exists"
)

// SignupDone runs once a signup form has passed validation.
type SignupDone func(w http.ResponseWriter, r *http.Request, form auth.SignupForm)

// Signup serves the signup form and hands valid submissions to Done. It is
// routed for GET and POST only; every other method is a GET.
type Signup struct {
	View    *View
	Metrics *metrics.Metrics
	Done    SignupDone
}

// NewSignup returns a signup handler that calls done for valid forms.
func NewSignup(view *View, m *metrics.Metrics, done SignupDone) *Signup {
	return &Signup{View: view, Metrics: m, Done: done}
}

func (s *Signup) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.post(w, r)
		return
	}
	s.View.render(w, r, "signup-form.html", nil)
}

func (s *Signup) post(w http.ResponseWriter, r *http.Request) {
	form := auth.SignupForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Verify:   r.PostFormValue("verify"),
		Email:    r.PostFormValue("email"),
	}

	if err := form.Validate(); err != nil {
		var errs common.ValidationErrors
		if !errors.As(err, &errs) {
			s.View.serverError(w, r, err)
			return
		}
		s.Metrics.Signups.WithLabelValues(signupInvalid).Inc()
		data := signupData(form)
		for field, msg := range errs {
			data["error_"+field] = msg
		}
		s.View.render(w, r, "signup-form.html", data)
		return
	}

	s.Done(w, r, form)
}

// signupData refills the form. Passwords are never echoed back.
func signupData(form auth.SignupForm) map[string]any {
	return map[string]any{
		"username": form.Username,
		"email":    form.Email,
	}
}

// Auth provides the signup, login and logout handlers.
type Auth struct {
	View     *View
	Service  *auth.Service
	Sessions *auth.Sessions
	Metrics  *metrics.Metrics
}

// Register registers the auth routes.
func (a *Auth) Register(mux *http.ServeMux) {
	signup := NewSignup(a.View, a.Metrics, a.register)
	mux.Handle("GET /signup", signup)
	mux.Handle("POST /signup", signup)
	mux.HandleFunc("GET /login", a.loginGet)
	mux.HandleFunc("POST /login", a.loginPost)
	mux.HandleFunc("GET /logout", a.logout)
}

// register creates the account and logs it in.
func (a *Auth) register(w http.ResponseWriter, r *http.Request, form auth.SignupForm) {
	user, err := a.Service.Register(r.Context(), form.Username, form.Password, form.Email)
	if errors.Is(err, common.ErrAlreadyExists) {
		a.Metrics.Signups.WithLabelValues(signupExists).Inc()
		data := signupData(form)
		data["error_username"] = auth.MsgUserExists
		a.View.render(w, r, "signup-form.html", data)
		return
	}
	if err != nil {
		a.View.serverError(w, r, err)
		return
	}

	a.Metrics.Signups.WithLabelValues(signupSuccess).Inc()
	a.Sessions.Login(w, user)
	a.View.notice(w, r, fmt.Sprintf("Welcome, %s!", user.Name))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) loginGet(w http.ResponseWriter, r *http.Request) {
	a.View.render(w, r, "login-form.html", nil)
}

func (a *Auth) loginPost(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := a.Service.Authenticate(r.Context(), username, password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		a.Metrics.Logins.WithLabelValues(metrics.LoginFailure).Inc()
		a.View.render(w, r, "login-form.html", map[string]any{
			"username": username,
			"error":    "Invalid login",
		})
		return
	}
	if err != nil {
		a.View.serverError(w, r, err)
		return
	}

	a.Metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()
	a.Sessions.Login(w, user)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	a.Sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
