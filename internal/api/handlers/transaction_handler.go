package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xpense/xpense-server/internal/auth"
	"github.com/xpense/xpense-server/internal/models"
	"github.com/xpense/xpense-server/internal/services"
)

// TransactionHandler handles HTTP requests for transactions.
type TransactionHandler struct {
	service services.TransactionServiceProvider
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service services.TransactionServiceProvider) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List handles the request to list all transactions on the caller's
// accounts.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	transactions, err := h.service.ListTransactions(user.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// Create handles the request to create a transaction on one of the
// caller's accounts.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	txn, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	if txn.AccountID == "" {
		http.Error(w, "Account is required", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateTransaction(user.ID, txn)
	if err != nil {
		writeServiceError(w, err, "Failed to create transaction")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles the request to get a single transaction.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	txn, err := h.service.GetTransaction(user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get transaction")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// Update handles the request to replace a transaction's mutable
// fields. The path id is authoritative, and an omitted account keeps
// the current binding.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	txn, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateTransaction(user.ID, chi.URLParam(r, "id"), txn)
	if err != nil {
		writeServiceError(w, err, "Failed to update transaction")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles the request to delete a transaction. The deleted
// representation is returned.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	deleted, err := h.service.DeleteTransaction(user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (models.Transaction, bool) {
	var txn models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return models.Transaction{}, false
	}
	return txn, true
}
