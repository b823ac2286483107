package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// TurnsABI is the single payable method of the turn shop contract.
const TurnsABI = `[{"inputs":[],"name":"buyTurns","outputs":[],"stateMutability":"payable","type":"function"}]`

const (
	buyTurnsMethod      = "buyTurns"
	defaultPollInterval = time.Second
)

var (
	ErrChainMismatch   = errors.New("rpc endpoint serves a different chain")
	ErrNoRPCEndpoint   = errors.New("no reachable rpc endpoint")
	ErrInvalidContract = errors.New("invalid contract address")
	ErrInvalidTxHash   = errors.New("invalid transaction hash")
)

// Client is the part of an RPC client the gateway needs. *ethclient.Client satisfies it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type Dialer func(ctx context.Context, rawURL string) (Client, error)

func dialEthClient(ctx context.Context, rawURL string) (Client, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Gateway signs and submits purchases with a locally held key, the server-side counterpart of a
// browser wallet.
type Gateway struct {
	logger *slog.Logger

	key            *ecdsa.PrivateKey
	contractABI    abi.ABI
	dial           Dialer
	dialTimeout    time.Duration
	receiptTimeout time.Duration
	pollInterval   time.Duration
	gasLimit       uint64

	mu      sync.Mutex
	clients map[int64]Client
}

type Option func(*Gateway)

func WithDialer(dial Dialer) Option {
	return func(g *Gateway) {
		g.dial = dial
	}
}

func NewGateway(logger *slog.Logger, conf config.Wallet, opts ...Option) (*Gateway, error) {
	parsed, err := abi.JSON(strings.NewReader(TurnsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	gateway := &Gateway{
		logger:         logger.With("component", "chain"),
		contractABI:    parsed,
		dial:           dialEthClient,
		dialTimeout:    conf.DialTimeout,
		receiptTimeout: conf.ReceiptTimeout,
		pollInterval:   conf.ReceiptPollInterval,
		gasLimit:       conf.GasLimit,
		clients:        make(map[int64]Client),
	}

	if gateway.pollInterval <= 0 {
		gateway.pollInterval = defaultPollInterval
	}

	if conf.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(conf.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse wallet key: %w", err)
		}

		gateway.key = key
	}

	for _, opt := range opts {
		opt(gateway)
	}

	return gateway, nil
}

// Connect returns the wallet account. It fails with ErrWalletUnavailable when no key is configured.
func (that *Gateway) Connect(_ context.Context) (entity.Account, error) {
	if that.key == nil {
		return entity.Account{}, apperror.ErrWalletUnavailable
	}

	address := crypto.PubkeyToAddress(that.key.PublicKey)

	return entity.Account{Address: address.Hex()}, nil
}

// SwitchChain makes sure an endpoint of the network is reachable and serves the expected chain.
func (that *Gateway) SwitchChain(ctx context.Context, network entity.Network) error {
	if _, err := that.client(ctx, network); err != nil {
		return fmt.Errorf("failed to switch to %s: %w", network.ChainName, err)
	}

	return nil
}

// PurchaseTurns sends value to the contract's buyTurns method and waits for the receipt. Once the
// transaction is broadcast the wait no longer follows ctx cancellation: the payment is out. When
// no receipt shows up within the receipt timeout a pending receipt is returned; AwaitReceipt
// resolves it later.
func (that *Gateway) PurchaseTurns(ctx context.Context, network entity.Network, value *big.Int) (*entity.Receipt, error) {
	log := that.logger.With("method", "PurchaseTurns", "network", network.Key)

	if that.key == nil {
		return nil, apperror.ErrWalletUnavailable
	}

	if !common.IsHexAddress(network.ContractAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContract, network.ContractAddress)
	}

	client, err := that.client(ctx, network)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(that.key, big.NewInt(network.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	opts.Context = ctx
	opts.Value = value
	opts.GasLimit = that.gasLimit

	contract := bind.NewBoundContract(common.HexToAddress(network.ContractAddress), that.contractABI, client, client, client)

	tx, err := contract.Transact(opts, buyTurnsMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to send purchase transaction: %w", err)
	}

	log.Info("purchase transaction sent", "tx", tx.Hash().Hex())

	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.receiptTimeout)
	defer cancel()

	receipt, err := that.waitMined(waitCtx, client, tx.Hash(), network)
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn("purchase receipt not seen in time, purchase pending", "tx", tx.Hash().Hex())

		return &entity.Receipt{
			TxHash:  tx.Hash().Hex(),
			Network: network.Key,
			Pending: true,
		}, nil
	}

	return receipt, err
}

// AwaitReceipt polls until the transaction txHash is mined on network or ctx is done.
func (that *Gateway) AwaitReceipt(ctx context.Context, network entity.Network, txHash string) (*entity.Receipt, error) {
	hash := common.HexToHash(txHash)
	if hash == (common.Hash{}) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTxHash, txHash)
	}

	client, err := that.client(ctx, network)
	if err != nil {
		return nil, err
	}

	return that.waitMined(ctx, client, hash, network)
}

// waitMined polls for the receipt of hash. Lookup errors other than ctx expiry are retried.
func (that *Gateway) waitMined(ctx context.Context, client Client, hash common.Hash, network entity.Network) (*entity.Receipt, error) {
	log := that.logger.With("method", "waitMined", "tx", hash.Hex())

	ticker := time.NewTicker(that.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("%w: %s", apperror.ErrTransactionReverted, hash.Hex())
			}

			return &entity.Receipt{
				TxHash:      hash.Hex(),
				BlockNumber: receipt.BlockNumber.Uint64(),
				Network:     network.Key,
			}, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			log.Debug("receipt lookup failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to wait for purchase receipt: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close releases every dialed client.
func (that *Gateway) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for chainID, client := range that.clients {
		closeClient(client)
		delete(that.clients, chainID)
	}
}

// client returns the cached client of the network or dials its endpoints in order. Dialing
// happens outside the lock so a slow endpoint only delays callers of its own network.
func (that *Gateway) client(ctx context.Context, network entity.Network) (Client, error) {
	that.mu.Lock()
	cached, ok := that.clients[network.ChainID]
	that.mu.Unlock()

	if ok {
		return cached, nil
	}

	var errs []error
	for _, rawURL := range network.RPCURLs {
		client, err := that.dialAndVerify(ctx, rawURL, network.ChainID)
		if err != nil {
			that.logger.Warn("rpc endpoint rejected", "url", rawURL, "error", err)
			errs = append(errs, err)
			continue
		}

		return that.storeClient(network.ChainID, client), nil
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s has no rpc urls", ErrNoRPCEndpoint, network.Key)
	}

	return nil, fmt.Errorf("%w: %w", ErrNoRPCEndpoint, errors.Join(errs...))
}

// storeClient caches client unless a concurrent dial of the same chain won, in which case client
// is closed and the winner returned.
func (that *Gateway) storeClient(chainID int64, client Client) Client {
	that.mu.Lock()
	defer that.mu.Unlock()

	if cached, ok := that.clients[chainID]; ok {
		if cached != client {
			closeClient(client)
		}

		return cached
	}

	that.clients[chainID] = client

	return client
}

func (that *Gateway) dialAndVerify(ctx context.Context, rawURL string, chainID int64) (Client, error) {
	dialCtx := ctx
	if that.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, that.dialTimeout)
		defer cancel()
	}

	client, err := that.dial(dialCtx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rawURL, err)
	}

	actual, err := client.ChainID(dialCtx)
	if err != nil {
		closeClient(client)
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	if actual.Int64() != chainID {
		closeClient(client)
		return nil, fmt.Errorf("%w: want %d, got %s", ErrChainMismatch, chainID, actual)
	}

	return client, nil
}

func closeClient(client Client) {
	if closer, ok := client.(interface{ Close() }); ok {
		closer.Close()
	}
}
