package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("WALLET_PRIVATE_KEY", "")

		// Given: a config that only sets the port
		path := writeConfig(t, "http-port: \"8081\"\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: every other field falls back to its default
		require.NoError(t, err)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 500*time.Millisecond, conf.Game.OpponentDelay)
		assert.Equal(t, 30*time.Minute, conf.Game.SessionTTL)
		assert.Equal(t, "0.05", conf.Game.PurchasePrice)
		assert.Equal(t, uint(5), conf.Game.TurnsPerBatch)
		assert.Equal(t, 30*time.Minute, conf.Game.PendingPurchase)
		assert.Equal(t, 2*time.Minute, conf.Wallet.ReceiptTimeout)
		assert.Equal(t, time.Second, conf.Wallet.ReceiptPollInterval)
		assert.Zero(t, conf.Wallet.GasLimit)
		assert.Empty(t, conf.Wallet.PrivateKey)
		assert.Equal(t, "monad", conf.DefaultNetwork)
		assert.Equal(t, DefaultNetworks(), conf.Networks)
	})

	t.Run("CustomNetwork", func(t *testing.T) {
		t.Setenv("WALLET_PRIVATE_KEY", "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")

		path := writeConfig(t, `
default-network: local
game:
  opponent-delay: 50ms
networks:
  local:
    chain-id: 1337
    chain-name: Local
    native-currency:
      name: Ether
      symbol: ETH
      decimals: 18
    rpc-urls:
      - http://127.0.0.1:8545
    contract-address: "0x0000000000000000000000000000000000000001"
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 50*time.Millisecond, conf.Game.OpponentDelay)
		assert.Equal(t, "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291", conf.Wallet.PrivateKey)
		require.Len(t, conf.Networks, 1)

		local := conf.Networks["local"]
		assert.Equal(t, "local", local.Key)
		assert.Equal(t, int64(1337), local.ChainID)
		assert.Equal(t, uint8(18), local.NativeCurrency.Decimals)
		assert.Equal(t, []string{"http://127.0.0.1:8545"}, local.RPCURLs)
	})

	t.Run("UnknownDefaultNetwork", func(t *testing.T) {
		path := writeConfig(t, "default-network: mainnet\n")

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "mainnet")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}
