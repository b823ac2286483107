package chain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var (
	errDialRefused = errors.New("connection refused")

	shopAddress     = common.HexToAddress("0x00000000000000000000000000000000000c0ffe")
	revertedAddress = common.HexToAddress("0x000000000000000000000000000000000000dead")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func walletConfig(key string) config.Wallet {
	return config.Wallet{
		PrivateKey:          key,
		ReceiptTimeout:      30 * time.Second,
		ReceiptPollInterval: 20 * time.Millisecond,
		DialTimeout:         5 * time.Second,
	}
}

// cancelAfterSend cancels the caller's context as soon as a transaction is broadcast, like a
// client hanging up while the purchase is in flight.
type cancelAfterSend struct {
	Client
	cancel context.CancelFunc
}

func (that cancelAfterSend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	err := that.Client.SendTransaction(ctx, tx)
	that.cancel()

	return err
}

// newSimulatedChain starts an in-memory chain where the test key is funded, shopAddress accepts
// any call (code STOP) and revertedAddress always reverts (PUSH1 0 PUSH1 0 REVERT).
func newSimulatedChain(t *testing.T) (*simulated.Backend, entity.Network) {
	t.Helper()

	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)

	funds := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
		shopAddress:                           {Code: []byte{0x00}, Balance: big.NewInt(0)},
		revertedAddress:                       {Code: []byte{0x60, 0x00, 0x60, 0x00, 0xfd}, Balance: big.NewInt(0)},
	})
	t.Cleanup(func() {
		_ = backend.Close()
	})

	chainID, err := backend.Client().ChainID(context.Background())
	require.NoError(t, err)

	network := entity.Network{
		Key:             "simulated",
		ChainID:         chainID.Int64(),
		ChainName:       "Simulated",
		NativeCurrency:  entity.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		RPCURLs:         []string{"simulated://"},
		ContractAddress: shopAddress.Hex(),
	}

	return backend, network
}

func simulatedDialer(backend *simulated.Backend) Dialer {
	return func(context.Context, string) (Client, error) {
		return backend.Client(), nil
	}
}

// keepMining commits a block every few milliseconds until the test ends.
func keepMining(t *testing.T, backend *simulated.Backend) {
	t.Helper()

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()
}

func TestParseUnits(t *testing.T) {
	t.Run("Price in ether", func(t *testing.T) {
		value, err := ParseUnits("0.05", 18)

		require.NoError(t, err)
		assert.Equal(t, "50000000000000000", value.String())
	})

	t.Run("Whole amount", func(t *testing.T) {
		value, err := ParseUnits("3", 6)

		require.NoError(t, err)
		assert.Equal(t, "3000000", value.String())
	})

	t.Run("Rejects garbage and negative amounts", func(t *testing.T) {
		_, err := ParseUnits("abc", 18)
		require.ErrorIs(t, err, ErrInvalidAmount)

		_, err = ParseUnits("-1", 18)
		require.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Rejects too many decimals", func(t *testing.T) {
		_, err := ParseUnits("0.001", 2)
		require.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(config.DefaultNetworks())

	t.Run("Lists networks ordered by key", func(t *testing.T) {
		list := registry.List()

		require.Len(t, list, 2)
		assert.Equal(t, "monad", list[0].Key)
		assert.Equal(t, "somnia", list[1].Key)
	})

	t.Run("Gets network parameters", func(t *testing.T) {
		network, err := registry.Get("somnia")

		require.NoError(t, err)
		assert.Equal(t, int64(50312), network.ChainID)
		assert.Equal(t, "STT", network.NativeCurrency.Symbol)
		assert.Equal(t, []string{"https://dream-rpc.somnia.network"}, network.RPCURLs)
	})

	t.Run("Unknown network", func(t *testing.T) {
		_, err := registry.Get("mainnet")

		require.ErrorIs(t, err, apperror.ErrUnknownNetwork)
	})
}

func TestTurnsABI(t *testing.T) {
	gateway, err := NewGateway(discardLogger(), walletConfig(""))
	require.NoError(t, err)

	// When: packing the purchase call
	data, err := gateway.contractABI.Pack(buyTurnsMethod)

	// Then: it is just the 4-byte selector of buyTurns()
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("buyTurns()"))[:4], data)
	assert.True(t, gateway.contractABI.Methods[buyTurnsMethod].IsPayable())
}

func TestGateway_Connect(t *testing.T) {
	t.Run("Without key the wallet is unavailable", func(t *testing.T) {
		gateway, err := NewGateway(discardLogger(), walletConfig(""))
		require.NoError(t, err)

		_, err = gateway.Connect(context.Background())

		require.ErrorIs(t, err, apperror.ErrWalletUnavailable)
	})

	t.Run("Returns the key address", func(t *testing.T) {
		gateway, err := NewGateway(discardLogger(), walletConfig("0x"+testKeyHex))
		require.NoError(t, err)

		key, err := crypto.HexToECDSA(testKeyHex)
		require.NoError(t, err)

		account, err := gateway.Connect(context.Background())

		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), account.Address)
	})

	t.Run("Malformed key fails construction", func(t *testing.T) {
		_, err := NewGateway(discardLogger(), walletConfig("not-a-key"))

		require.Error(t, err)
	})
}

func TestGateway_SwitchChain(t *testing.T) {
	t.Run("Verifies chain id", func(t *testing.T) {
		backend, network := newSimulatedChain(t)
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		require.NoError(t, gateway.SwitchChain(context.Background(), network))
	})

	t.Run("Mismatching chain id is rejected", func(t *testing.T) {
		backend, network := newSimulatedChain(t)
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		network.ChainID = 10143

		err = gateway.SwitchChain(context.Background(), network)

		require.ErrorIs(t, err, ErrNoRPCEndpoint)
		require.ErrorIs(t, err, ErrChainMismatch)
	})

	t.Run("Slow endpoint does not hold up other chains", func(t *testing.T) {
		// Given: one network whose endpoint hangs and a healthy simulated one
		backend, network := newSimulatedChain(t)

		entered := make(chan struct{})
		release := make(chan struct{})
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(func(_ context.Context, rawURL string) (Client, error) {
			if rawURL == "slow://" {
				close(entered)
				<-release
				return nil, errDialRefused
			}

			return backend.Client(), nil
		}))
		require.NoError(t, err)

		slow := entity.Network{Key: "slow", ChainID: 1, ChainName: "Slow", RPCURLs: []string{"slow://"}}

		slowDone := make(chan error, 1)
		go func() {
			slowDone <- gateway.SwitchChain(context.Background(), slow)
		}()
		<-entered

		// When: switching to the healthy network while the slow dial is stuck
		fastDone := make(chan error, 1)
		go func() {
			fastDone <- gateway.SwitchChain(context.Background(), network)
		}()

		// Then: it completes without waiting for the slow endpoint
		select {
		case err = <-fastDone:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("switch to a healthy chain blocked behind a slow endpoint")
		}

		close(release)
		require.ErrorIs(t, <-slowDone, errDialRefused)
	})

	t.Run("Unreachable endpoints", func(t *testing.T) {
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(func(context.Context, string) (Client, error) {
			return nil, errDialRefused
		}))
		require.NoError(t, err)

		err = gateway.SwitchChain(context.Background(), config.DefaultNetworks()["monad"])

		require.ErrorIs(t, err, ErrNoRPCEndpoint)
		require.ErrorIs(t, err, errDialRefused)
	})
}

func TestGateway_PurchaseTurns(t *testing.T) {
	price, err := ParseUnits("0.05", 18)
	require.NoError(t, err)

	t.Run("Successful purchase returns the receipt", func(t *testing.T) {
		// Given: a simulated chain with the shop contract
		backend, network := newSimulatedChain(t)
		keepMining(t, backend)
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		// When: buying turns
		receipt, err := gateway.PurchaseTurns(context.Background(), network, price)

		// Then: the transaction is mined and the shop holds the payment
		require.NoError(t, err)
		assert.Equal(t, "simulated", receipt.Network)
		assert.NotEmpty(t, receipt.TxHash)

		balance, err := backend.Client().BalanceAt(context.Background(), shopAddress, nil)
		require.NoError(t, err)
		assert.Equal(t, price.String(), balance.String())
	})

	t.Run("Reverted transaction fails the purchase", func(t *testing.T) {
		// Given: a fixed gas limit, so the reverting call is mined instead of rejected by estimation
		backend, network := newSimulatedChain(t)
		keepMining(t, backend)

		conf := walletConfig(testKeyHex)
		conf.GasLimit = 100_000
		gateway, err := NewGateway(discardLogger(), conf, WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		network.ContractAddress = revertedAddress.Hex()

		// When: buying turns from the reverting contract
		receipt, err := gateway.PurchaseTurns(context.Background(), network, price)

		// Then: the mined failure status is reported as a revert
		require.ErrorIs(t, err, apperror.ErrTransactionReverted)
		assert.Nil(t, receipt)

		balance, err := backend.Client().BalanceAt(context.Background(), revertedAddress, nil)
		require.NoError(t, err)
		assert.Zero(t, balance.Sign())
	})

	t.Run("Reverting contract is rejected by gas estimation", func(t *testing.T) {
		backend, network := newSimulatedChain(t)
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		network.ContractAddress = revertedAddress.Hex()

		_, err = gateway.PurchaseTurns(context.Background(), network, price)

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrTransactionReverted)
	})

	t.Run("Receipt timeout after broadcast leaves the purchase pending", func(t *testing.T) {
		// Given: a chain that mines nothing within the receipt timeout
		backend, network := newSimulatedChain(t)

		conf := walletConfig(testKeyHex)
		conf.ReceiptTimeout = 200 * time.Millisecond
		gateway, err := NewGateway(discardLogger(), conf, WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		// When: buying turns
		pending, err := gateway.PurchaseTurns(context.Background(), network, price)

		// Then: the purchase is not reported as failed but as pending
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.True(t, pending.Pending)
		assert.NotEmpty(t, pending.TxHash)
		assert.Equal(t, "simulated", pending.Network)

		// When: the transaction is mined later
		backend.Commit()

		// Then: the receipt resolves and the shop holds the payment
		receipt, err := gateway.AwaitReceipt(context.Background(), network, pending.TxHash)
		require.NoError(t, err)
		assert.False(t, receipt.Pending)
		assert.Equal(t, pending.TxHash, receipt.TxHash)
		assert.Positive(t, receipt.BlockNumber)

		balance, err := backend.Client().BalanceAt(context.Background(), shopAddress, nil)
		require.NoError(t, err)
		assert.Equal(t, price.String(), balance.String())
	})

	t.Run("Cancelled request still waits for the broadcast payment", func(t *testing.T) {
		// Given: a caller that goes away right after the transaction is sent
		backend, network := newSimulatedChain(t)
		keepMining(t, backend)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(func(context.Context, string) (Client, error) {
			return cancelAfterSend{Client: backend.Client(), cancel: cancel}, nil
		}))
		require.NoError(t, err)

		// When: buying turns
		receipt, err := gateway.PurchaseTurns(ctx, network, price)

		// Then: the mined receipt is still returned
		require.NoError(t, err)
		require.ErrorIs(t, ctx.Err(), context.Canceled)
		assert.False(t, receipt.Pending)
		assert.Positive(t, receipt.BlockNumber)
	})

	t.Run("Awaiting a malformed hash fails", func(t *testing.T) {
		backend, network := newSimulatedChain(t)
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex), WithDialer(simulatedDialer(backend)))
		require.NoError(t, err)

		_, err = gateway.AwaitReceipt(context.Background(), network, "")

		require.ErrorIs(t, err, ErrInvalidTxHash)
	})

	t.Run("Without key the wallet is unavailable", func(t *testing.T) {
		gateway, err := NewGateway(discardLogger(), walletConfig(""))
		require.NoError(t, err)

		_, err = gateway.PurchaseTurns(context.Background(), config.DefaultNetworks()["monad"], price)

		require.ErrorIs(t, err, apperror.ErrWalletUnavailable)
	})

	t.Run("Invalid contract address", func(t *testing.T) {
		gateway, err := NewGateway(discardLogger(), walletConfig(testKeyHex))
		require.NoError(t, err)

		network := config.DefaultNetworks()["monad"]
		network.ContractAddress = "nowhere"

		_, err = gateway.PurchaseTurns(context.Background(), network, price)

		require.ErrorIs(t, err, ErrInvalidContract)
	})
}
