package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow/internal/auth"
	"github.com/BuzzLyutic/taskflow/internal/repo"
	"github.com/BuzzLyutic/taskflow/internal/service"
	"github.com/BuzzLyutic/taskflow/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.OK(w, r, http.StatusCreated, "Registration successful", session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.OK(w, r, http.StatusOK, "Login successful", session)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.service.Profile(r.Context(), caller.UserID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.OK(w, r, http.StatusOK, "", map[string]any{"user": user})
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), caller.UserID, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.OK(w, r, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}

func (h *AuthHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.ValidationError(w, r, fieldErrors(vErr))
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Internal(w, r, "internal error", err)
	}
}
