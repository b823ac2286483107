package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/caro"
	"github.com/rocketscienceinc/caro-backend/internal/chain"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

type walletGateway interface {
	Connect(ctx context.Context) (entity.Account, error)
	SwitchChain(ctx context.Context, network entity.Network) error
	PurchaseTurns(ctx context.Context, network entity.Network, value *big.Int) (*entity.Receipt, error)
	AwaitReceipt(ctx context.Context, network entity.Network, txHash string) (*entity.Receipt, error)
}

type networkRegistry interface {
	Get(key string) (entity.Network, error)
}

type Rules struct {
	OpponentDelay time.Duration
	TurnsPerBatch uint
	PurchasePrice string
	// PendingTimeout bounds the wait for a pending purchase. Zero waits until the session closes.
	PendingTimeout time.Duration
}

type SessionDeps struct {
	Logger    *slog.Logger
	Gateway   walletGateway
	Networks  networkRegistry
	Opponent  *caro.Opponent
	Scheduler Scheduler
	Rules     Rules

	// Notify receives every new state. It is called with the session lock held and must not call
	// back into the session.
	Notify func(state entity.SessionState)
}

// Session is the state machine of one player's game: board, turn alternation, credits and wallet.
type Session struct {
	logger    *slog.Logger
	gateway   walletGateway
	networks  networkRegistry
	opponent  *caro.Opponent
	scheduler Scheduler
	rules     Rules
	notify    func(state entity.SessionState)

	mu             sync.Mutex
	state          entity.SessionState
	cancelOpponent func()
	cancelAwait    func()
	purchasing     bool
	closed         bool
}

// NewSessionState returns the state of a freshly opened session.
func NewSessionState(id, network string) entity.SessionState {
	state := entity.SessionState{
		ID:      id,
		Board:   entity.NewBoard(),
		Turn:    entity.MarkerHuman,
		Status:  entity.StatusAwaitingHuman,
		Network: network,
	}
	state.Derive()

	return state
}

// NewSession takes ownership of state. A state restored while the opponent was due to reply gets
// its reply scheduled again.
func NewSession(deps SessionDeps, state entity.SessionState) *Session {
	session := &Session{
		logger:    deps.Logger.With("component", "session", "session", state.ID),
		gateway:   deps.Gateway,
		networks:  deps.Networks,
		opponent:  deps.Opponent,
		scheduler: deps.Scheduler,
		rules:     deps.Rules,
		notify:    deps.Notify,
		state:     state,
	}

	session.state.Derive()

	if session.state.Status == entity.StatusAwaitingOpponent {
		session.scheduleOpponent()
	}

	if pending := session.state.PendingPurchase; pending != nil {
		session.purchasing = true
		session.awaitPurchase(*pending)
	}

	return session
}

func (that *Session) State() entity.SessionState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

// Move places the human marker. Moves that are not allowed right now (no credit, not the human's
// turn, game over, occupied or out of range cell) are ignored and leave the state untouched.
func (that *Session) Move(row, col int) entity.SessionState {
	log := that.logger.With("method", "Move", "row", row, "col", col)

	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.state.CanAct {
		log.Debug("move ignored", "reason", "human can not act", "status", that.state.Status)
		return that.state
	}

	board, ok := caro.ApplyMove(that.state.Board, entity.Move{Row: row, Col: col, Marker: entity.MarkerHuman})
	if !ok {
		log.Debug("move ignored", "reason", "cell unavailable")
		return that.state
	}

	that.state.Board = board

	if !that.settle() {
		that.state.Status = entity.StatusAwaitingOpponent
		that.state.Turn = entity.MarkerOpponent
		that.scheduleOpponent()
	}

	that.commit()

	return that.state
}

// Reset starts a new round. A pending opponent reply of the previous round is dropped.
func (that *Session) Reset() entity.SessionState {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.cancelOpponent != nil {
		that.cancelOpponent()
		that.cancelOpponent = nil
	}

	that.state.Round++
	that.state.Board = entity.NewBoard()
	that.state.Win = nil
	that.state.Draw = false
	that.state.Turn = entity.MarkerHuman
	that.state.Status = entity.StatusAwaitingHuman
	that.state.Eligible = that.state.Credits.Remaining() > 0

	that.commit()

	return that.state
}

// ConnectWallet connects the wallet and points it at the selected network. A failing chain switch
// is only logged.
func (that *Session) ConnectWallet(ctx context.Context) (entity.SessionState, error) {
	log := that.logger.With("method", "ConnectWallet")

	account, err := that.gateway.Connect(ctx)
	if err != nil {
		log.Error("wallet connection failed", "error", err)

		if errors.Is(err, apperror.ErrWalletUnavailable) {
			return that.State(), err
		}

		return that.State(), fmt.Errorf("failed to connect wallet: %w", err)
	}

	that.mu.Lock()
	that.state.Account = &account
	that.commit()
	networkKey := that.state.Network
	that.mu.Unlock()

	log.Info("wallet connected", "account", account.ShortAddress())

	that.switchChain(ctx, networkKey)

	return that.State(), nil
}

// DisconnectWallet forgets the account. Purchased and used credits are kept.
func (that *Session) DisconnectWallet() entity.SessionState {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.state.Account = nil
	that.state.Eligible = false

	that.commit()

	return that.state
}

// SwitchNetwork selects one of the configured networks.
func (that *Session) SwitchNetwork(ctx context.Context, key string) (entity.SessionState, error) {
	if _, err := that.networks.Get(key); err != nil {
		return that.State(), err
	}

	that.mu.Lock()
	that.state.Network = key
	that.commit()
	connected := that.state.Account != nil
	that.mu.Unlock()

	if connected {
		that.switchChain(ctx, key)
	}

	return that.State(), nil
}

// Purchase buys a batch of turns on the selected network. Only one purchase may be in flight.
// On failure the credits are left unchanged. A purchase the gateway reports as pending keeps
// the purchase slot taken until its receipt shows up; the batch is credited then.
func (that *Session) Purchase(ctx context.Context) (entity.SessionState, *entity.Receipt, error) {
	log := that.logger.With("method", "Purchase")

	network, value, err := that.beginPurchase()
	if err != nil {
		return that.State(), nil, err
	}

	receipt, err := that.gateway.PurchaseTurns(ctx, network, value)

	that.mu.Lock()
	defer that.mu.Unlock()

	if err != nil {
		that.purchasing = false

		log.Error("purchase failed", "network", network.Key, "error", err)
		return that.state, nil, fmt.Errorf("%w: %w", apperror.ErrPurchaseFailed, err)
	}

	if receipt.Pending {
		that.state.PendingPurchase = receipt
		that.commit()
		that.awaitPurchase(*receipt)

		log.Warn("purchase pending", "tx", receipt.TxHash)

		return that.state, receipt, nil
	}

	that.purchasing = false
	that.credit(receipt)

	return that.state, receipt, nil
}

// Purchasing reports whether a purchase is in flight or pending.
func (that *Session) Purchasing() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.purchasing
}

// Close drops a pending opponent reply and stops waiting for a pending purchase. The snapshot
// keeps the pending purchase, so a restored session resumes the wait.
func (that *Session) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true

	if that.cancelOpponent != nil {
		that.cancelOpponent()
		that.cancelOpponent = nil
	}

	if that.cancelAwait != nil {
		that.cancelAwait()
		that.cancelAwait = nil
	}
}

func (that *Session) beginPurchase() (entity.Network, *big.Int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.Account == nil {
		return entity.Network{}, nil, apperror.ErrWalletNotConnected
	}

	if that.purchasing {
		return entity.Network{}, nil, apperror.ErrPurchaseInProgress
	}

	network, err := that.networks.Get(that.state.Network)
	if err != nil {
		return entity.Network{}, nil, err
	}

	value, err := chain.ParseUnits(that.rules.PurchasePrice, network.NativeCurrency.Decimals)
	if err != nil {
		return entity.Network{}, nil, fmt.Errorf("failed to parse purchase price: %w", err)
	}

	that.purchasing = true

	return network, value, nil
}

func (that *Session) switchChain(ctx context.Context, key string) {
	log := that.logger.With("method", "switchChain", "network", key)

	network, err := that.networks.Get(key)
	if err != nil {
		log.Error("network lookup failed", "error", err)
		return
	}

	if err = that.gateway.SwitchChain(ctx, network); err != nil {
		log.Error("chain switch failed", "error", err)
	}
}

// awaitPurchase waits for the receipt of pending in the background. Must be called with the
// lock held.
func (that *Session) awaitPurchase(pending entity.Receipt) {
	ctx, cancel := context.WithCancel(context.Background())
	if that.rules.PendingTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), that.rules.PendingTimeout)
	}

	that.cancelAwait = cancel

	go that.settlePurchase(ctx, cancel, pending)
}

func (that *Session) settlePurchase(ctx context.Context, cancel context.CancelFunc, pending entity.Receipt) {
	defer cancel()

	log := that.logger.With("method", "settlePurchase", "tx", pending.TxHash)

	receipt, err := that.lookupReceipt(ctx, pending)

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || that.state.PendingPurchase == nil || that.state.PendingPurchase.TxHash != pending.TxHash {
		return
	}

	that.state.PendingPurchase = nil
	that.purchasing = false
	that.cancelAwait = nil

	if err != nil {
		log.Error("pending purchase not credited", "error", err)
		that.commit()

		return
	}

	that.credit(receipt)
}

func (that *Session) lookupReceipt(ctx context.Context, pending entity.Receipt) (*entity.Receipt, error) {
	network, err := that.networks.Get(pending.Network)
	if err != nil {
		return nil, err
	}

	return that.gateway.AwaitReceipt(ctx, network, pending.TxHash)
}

// credit adds a purchased batch. Must be called with the lock held.
func (that *Session) credit(receipt *entity.Receipt) {
	that.state.Credits.AddPurchased(that.rules.TurnsPerBatch)
	that.state.Eligible = true

	that.commit()

	that.logger.Info("purchase successful", "tx", receipt.TxHash, "turns", that.rules.TurnsPerBatch)
}

// scheduleOpponent must be called with the lock held.
func (that *Session) scheduleOpponent() {
	round := that.state.Round
	that.cancelOpponent = that.scheduler.Schedule(that.rules.OpponentDelay, func() {
		that.opponentMove(round)
	})
}

func (that *Session) opponentMove(round uint64) {
	log := that.logger.With("method", "opponentMove")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.Round != round || that.state.Status != entity.StatusAwaitingOpponent {
		log.Debug("stale opponent move dropped", "round", round)
		return
	}

	that.cancelOpponent = nil

	move, ok := that.opponent.SelectMove(that.state.Board)
	if ok {
		that.state.Board, _ = caro.ApplyMove(that.state.Board, move)
	}

	if !that.settle() {
		that.state.Status = entity.StatusAwaitingHuman
		that.state.Turn = entity.MarkerHuman
	}

	that.commit()
}

// settle ends the round when the last move won or filled the board. A win consumes one credit.
func (that *Session) settle() bool {
	if win := caro.DetectWin(that.state.Board); win != nil {
		that.state.Win = win
		that.state.Status = entity.StatusGameOver
		that.state.Turn = entity.MarkerEmpty
		that.state.Credits.Consume()

		return true
	}

	if that.state.Board.IsFull() {
		that.state.Draw = true
		that.state.Status = entity.StatusGameOver
		that.state.Turn = entity.MarkerEmpty

		return true
	}

	return false
}

func (that *Session) commit() {
	that.state.Version++
	that.state.Derive()

	if that.notify != nil {
		that.notify(that.state)
	}
}
