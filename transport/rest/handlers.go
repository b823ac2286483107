package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

type sessionUseCase interface {
	CreateSession(ctx context.Context) (entity.SessionState, error)
	GetState(ctx context.Context, id string) (entity.SessionState, error)
	Move(ctx context.Context, id string, row, col int) (entity.SessionState, error)
	Reset(ctx context.Context, id string) (entity.SessionState, error)
	Purchase(ctx context.Context, id string) (entity.SessionState, *entity.Receipt, error)
	ConnectWallet(ctx context.Context, id string) (entity.SessionState, error)
	DisconnectWallet(ctx context.Context, id string) (entity.SessionState, error)
	SwitchNetwork(ctx context.Context, id, network string) (entity.SessionState, error)
}

type networkLister interface {
	List() []entity.Network
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type networkRequest struct {
	Network string `json:"network"`
}

type purchaseResponse struct {
	Session entity.SessionState `json:"session"`
	Receipt *entity.Receipt     `json:"receipt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger

	sessions sessionUseCase
	networks networkLister
}

func (that *handlers) listNetworks(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.networks.List())
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "createSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, state)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.GetState(r.Context(), chi.URLParam(r, "id"))
	that.respond(w, "getSession", state, err)
}

func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	state, err := that.sessions.Move(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	that.respond(w, "move", state, err)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.Reset(r.Context(), chi.URLParam(r, "id"))
	that.respond(w, "reset", state, err)
}

func (that *handlers) purchase(w http.ResponseWriter, r *http.Request) {
	state, receipt, err := that.sessions.Purchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "purchase", err)
		return
	}

	status := http.StatusOK
	if receipt.Pending {
		// paid but not mined yet; the session is credited once the receipt shows up
		status = http.StatusAccepted
	}

	that.writeJSON(w, status, purchaseResponse{Session: state, Receipt: receipt})
}

func (that *handlers) connectWallet(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.ConnectWallet(r.Context(), chi.URLParam(r, "id"))
	that.respond(w, "connectWallet", state, err)
}

func (that *handlers) disconnectWallet(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.DisconnectWallet(r.Context(), chi.URLParam(r, "id"))
	that.respond(w, "disconnectWallet", state, err)
}

func (that *handlers) switchNetwork(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Network == "" {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "network is required"})
		return
	}

	state, err := that.sessions.SwitchNetwork(r.Context(), chi.URLParam(r, "id"), req.Network)
	that.respond(w, "switchNetwork", state, err)
}

func (that *handlers) respond(w http.ResponseWriter, method string, state entity.SessionState, err error) {
	if err != nil {
		that.writeError(w, method, err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	} else {
		that.logger.Debug("request rejected", "method", method, "status", status, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrWalletUnavailable), errors.Is(err, apperror.ErrWalletNotConnected):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperror.ErrPurchaseInProgress):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrPurchaseFailed):
		return http.StatusBadGateway
	case errors.Is(err, apperror.ErrUnknownNetwork):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
