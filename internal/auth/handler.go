package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agendashows/service/internal/middleware"
	"github.com/agendashows/service/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"    example:"admin@example.com"`
	Password string `json:"password" example:"hunter2"`
}

type loginData struct {
	Token string `json:"token" example:"eyJhbGci..."`
}

type sessionData struct {
	Email string `json:"email" example:"admin@example.com"`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Validates the admin email and password and returns a session token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=loginData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	token, err := h.svc.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid email or password")
			return
		}
		response.InternalError(w, "")
		return
	}

	response.OK(w, loginData{Token: token})
}

// Logout godoc
//
//	@Summary		Admin logout
//	@Description	Acknowledges a logout. Tokens are stateless; the client discards its copy.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	response.Envelope
//	@Router			/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"message": "logged out"})
}

// Session godoc
//
//	@Summary		Current session
//	@Description	Returns the authenticated admin identity for the presented token.
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=sessionData}
//	@Failure		401	{object}	response.Envelope
//	@Router			/auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.AdminEmailKey).(string)
	if !ok || email == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}
	response.OK(w, sessionData{Email: email})
}
