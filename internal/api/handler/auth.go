package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/docfold-labs/docfold/internal/auth"
	"github.com/docfold-labs/docfold/internal/store"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

type AuthHandler struct {
	logger   *slog.Logger
	store    *store.Store
	tokens   *auth.Tokens
	sessions *auth.SessionStore
}

func NewAuthHandler(logger *slog.Logger, s *store.Store, tokens *auth.Tokens, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{logger: logger, store: s, tokens: tokens, sessions: sessions}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Name     *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateEmail(req.Email); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeAPIError(w, h.logger, apierr.RegistrationFailed(err))
		return
	}

	user, err := h.store.CreateUser(r.Context(), postgres.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         postgres.RoleViewer,
	})
	if err != nil {
		if apierr.IsUniqueViolation(err) {
			writeAPIError(w, h.logger, apierr.EmailTaken())
		} else {
			writeAPIError(w, h.logger, apierr.RegistrationFailed(err))
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.InvalidCredentials())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeAPIError(w, h.logger, apierr.InvalidCredentials())
		return
	}

	accessToken, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	resp := map[string]any{"access_token": accessToken}
	if h.sessions != nil {
		refreshToken, err := h.sessions.CreateRefreshToken(r.Context(), user.ID)
		if err != nil {
			writeAPIError(w, h.logger, apierr.InternalError(err))
			return
		}
		resp["refresh_token"] = refreshToken
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refresh redeems a refresh token for a fresh access token, rotating the
// refresh token in the process.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	userID, err := h.sessions.ConsumeRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			writeAPIError(w, h.logger, apierr.InvalidRefreshToken())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.InvalidRefreshToken())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	accessToken, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	refreshToken, err := h.sessions.CreateRefreshToken(r.Context(), user.ID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := h.sessions.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// RequestPasswordReset always answers neutrally so the endpoint cannot be
// used to probe which emails are registered.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	const neutral = "If the email exists, a reset token has been issued"

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.InternalError(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": neutral})
		return
	}

	token, err := h.sessions.CreateResetToken(r.Context(), user.ID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	// There is no mailer; the token is returned directly. A deployment with
	// real users would deliver it out of band instead.
	writeJSON(w, http.StatusOK, map[string]string{
		"message": neutral,
		"token":   token,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validatePassword(req.NewPassword); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	userID, err := h.sessions.ConsumeResetToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			writeAPIError(w, h.logger, apierr.InvalidResetToken())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	if err := h.store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}
