package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ayavuzer/manushotspot/core/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	res, err := a.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		a.serverError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *API) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	pair, err := a.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		a.serverError(w, "refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RoleID         int64  `json:"role_id"`
	OrganizationID *int64 `json:"organization_id"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := a.Auth.Register(r.Context(), auth.RegisterParams{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if status, msg, ok := registerErrorStatus(err); ok {
			writeError(w, status, msg)
			return
		}
		a.serverError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := a.Auth.Logout(r.Context(), p.UserID); err != nil {
		a.serverError(w, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (a *API) Profile(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	profile, err := a.Auth.Profile(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.serverError(w, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (a *API) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}
	p := principal(r)
	if err := a.Auth.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		a.serverError(w, "change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (a *API) serverError(w http.ResponseWriter, op string, err error) {
	if a.Logger != nil {
		a.Logger.Errorf("%s: %v", op, err)
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}
