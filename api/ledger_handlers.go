package api

import (
	"net/http"
	"time"

	"credmarket/api/httpx"
	"credmarket/models"
)

type createAccountRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type accountResponse struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := s.ledger.CreateAccount(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, accountResponse{UserID: account.UserID, Balance: account.Balance})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.GetBalance(r.Context(), urlID(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

type ledgerEntryResponse struct {
	ID            int64                `json:"id"`
	Amount        int64                `json:"amount"`
	BalanceBefore int64                `json:"balance_before"`
	BalanceAfter  int64                `json:"balance_after"`
	EntryType     models.EntryType     `json:"entry_type"`
	Description   string               `json:"description"`
	RelatedID     *int64               `json:"related_id,omitempty"`
	RelatedType   *models.ResourceType `json:"related_type,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toEntryResponse(e *models.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:            e.ID,
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		EntryType:     e.EntryType,
		Description:   e.Description,
		RelatedID:     e.RelatedID,
		RelatedType:   e.RelatedType,
		CreatedAt:     e.CreatedAt,
	}
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "since must be RFC 3339")
			return
		}
		since = &parsed
	}
	limit := queryInt(r, "limit", 50, 200)

	entries, err := s.ledger.ListHistory(r.Context(), urlID(r, "userID"), since, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.Summary(r.Context(), urlID(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, summary)
}

type transferRequest struct {
	PayerID     int64  `json:"payer_id" validate:"required,gt=0"`
	PayeeID     int64  `json:"payee_id" validate:"required,gt=0"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=500"`
}

type transferResponse struct {
	Amount     int64               `json:"amount"`
	NewBalance int64               `json:"new_balance"`
	PayerEntry ledgerEntryResponse `json:"payer_entry"`
	PayeeEntry ledgerEntryResponse `json:"payee_entry"`
}

func toTransferResponse(res *models.TransferResult) transferResponse {
	return transferResponse{
		Amount:     res.Amount,
		NewBalance: res.NewBalance,
		PayerEntry: toEntryResponse(res.PayerEntry),
		PayeeEntry: toEntryResponse(res.PayeeEntry),
	}
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.ledger.Transfer(r.Context(), req.PayerID, req.PayeeID, req.Amount, req.Description, nil, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toTransferResponse(result))
}
