package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/dmitrijs2005/datalyn/internal/server/gate"
	"github.com/dmitrijs2005/datalyn/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newAuthResponse(res *services.AuthResult) authResponse {
	return authResponse{
		Token: res.Token,
		User:  userInfo{ID: res.User.ID, Email: res.User.Email, Name: res.User.Name},
	}
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req signupRequest
	if err := netx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}
	if err := validateSignup(&req); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	res, err := h.Users.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(res))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := netx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}
	if err := validateLogin(&req); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	res, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(res))
}

// handleMe answers with the projection the gate loaded for this request.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := gate.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, caller)
}
