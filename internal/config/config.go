package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

type Config struct {
	LogLevel       string                    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string                    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis          Redis                     `yaml:"redis"`
	Game           Game                      `yaml:"game"`
	Wallet         Wallet                    `yaml:"wallet"`
	DefaultNetwork string                    `yaml:"default-network" env-default:"monad"`
	Networks       map[string]entity.Network `yaml:"networks"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	OpponentDelay   time.Duration `yaml:"opponent-delay" env-default:"500ms"`
	SessionTTL      time.Duration `yaml:"session-ttl" env-default:"30m"`
	PurchasePrice   string        `yaml:"purchase-price" env-default:"0.05"`
	TurnsPerBatch   uint          `yaml:"turns-per-batch" env-default:"5"`
	PendingPurchase time.Duration `yaml:"pending-purchase-timeout" env-default:"30m"`
}

type Wallet struct {
	PrivateKey          string        `yaml:"private-key" env:"WALLET_PRIVATE_KEY" env-default:""`
	ReceiptTimeout      time.Duration `yaml:"receipt-timeout" env-default:"2m"`
	ReceiptPollInterval time.Duration `yaml:"receipt-poll-interval" env-default:"1s"`
	DialTimeout         time.Duration `yaml:"dial-timeout" env-default:"10s"`

	// GasLimit fixes the gas of purchase transactions. Zero estimates it per transaction.
	GasLimit uint64 `yaml:"gas-limit" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if len(config.Networks) == 0 {
		config.Networks = DefaultNetworks()
	}

	for key, network := range config.Networks {
		network.Key = key
		config.Networks[key] = network
	}

	if _, ok := config.Networks[config.DefaultNetwork]; !ok {
		return nil, fmt.Errorf("default network %q is not configured", config.DefaultNetwork)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// DefaultNetworks are the two testnets the purchase contract is deployed on.
func DefaultNetworks() map[string]entity.Network {
	return map[string]entity.Network{
		"monad": {
			Key:               "monad",
			ChainID:           10143,
			ChainName:         "Monad Testnet",
			NativeCurrency:    entity.NativeCurrency{Name: "Monad", Symbol: "MON", Decimals: 18},
			RPCURLs:           []string{"https://testnet-rpc.monad.xyz"},
			BlockExplorerURLs: []string{"https://testnet.monadexplorer.com/"},
			ContractAddress:   "0x62C7eA9ce3d69e5B9Ce745fB28aa225Ff860D440",
		},
		"somnia": {
			Key:               "somnia",
			ChainID:           50312,
			ChainName:         "Somnia Testnet",
			NativeCurrency:    entity.NativeCurrency{Name: "Somnia", Symbol: "STT", Decimals: 18},
			RPCURLs:           []string{"https://dream-rpc.somnia.network"},
			BlockExplorerURLs: []string{"https://shannon-explorer.somnia.network/"},
			ContractAddress:   "0x651Be9B210B9562cfCd228845f58D7d3EF7D9fc1",
		},
	}
}
