package web

import (
	"net/http"
	"time"

	"github.com/nicheshunter/nicheshunter/adapters/auth"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/gate"
	"github.com/nicheshunter/nicheshunter/ports"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"subscription_status"`
	Subscribed bool   `json:"subscribed"`
	CanSave    bool   `json:"can_save"`
}

func accountFromUser(u ports.User) accountResponse {
	return accountResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Status:     string(u.Status),
		Subscribed: u.Status.Grants(),
		CanSave:    gate.CanSave(entitlement.Identity{UserID: u.ID, Status: u.Status}),
	}
}

// Register creates an account and sets the session cookie.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.authSvc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusCreated, accountFromUser(sess.User))
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusOK, accountFromUser(sess.User))
}

// Logout clears the session cookie. Tokens are stateless, so logout is
// purely a client-side forget.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me returns the signed-in account, with the current subscription status
// as read from the store.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	if id.IsAnonymous() {
		h.writeServiceError(w, app.ErrUnauthenticated)
		return
	}

	u, err := h.authSvc.Me(r.Context(), id.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountFromUser(u))
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
