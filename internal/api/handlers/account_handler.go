package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xpense/xpense-server/internal/auth"
	"github.com/xpense/xpense-server/internal/models"
	"github.com/xpense/xpense-server/internal/services"
)

// AccountHandler handles HTTP requests for accounts.
type AccountHandler struct {
	service services.AccountServiceProvider
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service services.AccountServiceProvider) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles the request to list the caller's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	accounts, err := h.service.ListAccounts(user.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to list accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// Create handles the request to create a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if account.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateAccount(user.ID, account)
	if err != nil {
		writeServiceError(w, err, "Failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles the request to get a single account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	account, err := h.service.GetAccount(user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get account")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Update handles the request to rename an account. The path id is
// authoritative; id and owner are immutable.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if account.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateAccount(user.ID, chi.URLParam(r, "id"), account.Name)
	if err != nil {
		writeServiceError(w, err, "Failed to update account")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles the request to delete an account and, with it, every
// transaction referencing it. The deleted representation is returned.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	deleted, err := h.service.DeleteAccount(user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to delete account")
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
