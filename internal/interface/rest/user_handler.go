// internal/interface/rest/user_handler.go
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/utils"
)

// UserHandler serves the users routes
type UserHandler struct {
	users  repository.UserRepository
	logger logger.Logger
}

// NewUserHandler creates the users handler
func NewUserHandler(users repository.UserRepository, logger logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Create registers a user on first login. Registering an existing email
// is a no-op success that only refreshes last_log_in.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if req.Email == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "email is required"))
		return
	}

	email := utils.NormalizeEmail(req.Email)

	if _, err := h.users.FindByEmail(r.Context(), email); err == nil {
		if err := h.users.TouchLastLogIn(r.Context(), email, time.Now()); err != nil {
			h.logger.Warn("Failed to refresh last_log_in", "email", email, "error", err)
		}
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "user already exists"})
		return
	} else if !apperr.Is(err, apperr.NotFound) {
		respondError(w, h.logger, err)
		return
	}

	user := &entity.User{
		Email:       email,
		DisplayName: req.DisplayName,
		Role:        entity.RoleUser,
	}
	id, err := h.users.Insert(r.Context(), user)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"insertedId": id})
}

// GetRole returns the role for an email, defaulting absent users to the
// base role so the client can always render something.
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(mux.Vars(r)["email"])

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			respondJSON(w, h.logger, http.StatusOK, map[string]string{"role": entity.RoleUser})
			return
		}
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"role": user.Role})
}

// Search lists users whose email contains the query fragment.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("email")
	if fragment == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "email query is required"))
		return
	}

	users, err := h.users.SearchByEmail(r.Context(), fragment)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []entity.User{}
	}

	respondJSON(w, h.logger, http.StatusOK, users)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole sets a user's role by document ID.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if req.Role != entity.RoleUser && req.Role != entity.RoleRider && req.Role != entity.RoleAdmin {
		respondError(w, h.logger, apperr.Newf(apperr.BadRequest, "unknown role %q", req.Role))
		return
	}

	if err := h.users.SetRoleByID(r.Context(), id, req.Role); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "role updated"})
}
