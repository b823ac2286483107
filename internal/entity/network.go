package entity

type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// Network is the static description of a supported chain.
type Network struct {
	Key               string         `json:"key" yaml:"-"`
	ChainID           int64          `json:"chain_id" yaml:"chain-id"`
	ChainName         string         `json:"chain_name" yaml:"chain-name"`
	NativeCurrency    NativeCurrency `json:"native_currency" yaml:"native-currency"`
	RPCURLs           []string       `json:"rpc_urls" yaml:"rpc-urls"`
	BlockExplorerURLs []string       `json:"block_explorer_urls" yaml:"block-explorer-urls"`
	ContractAddress   string         `json:"contract_address" yaml:"contract-address"`
}

type Account struct {
	Address string `json:"address"`
}

// ShortAddress renders the address as 0x1234...abcd.
func (that Account) ShortAddress() string {
	if len(that.Address) <= 10 {
		return that.Address
	}

	return that.Address[:6] + "..." + that.Address[len(that.Address)-4:]
}

// Receipt of a purchase. A pending receipt belongs to a broadcast transaction whose inclusion has
// not been seen yet; it has no block number.
type Receipt struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	Network     string `json:"network"`
	Pending     bool   `json:"pending,omitempty"`
}
