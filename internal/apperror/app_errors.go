package apperror

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrWalletUnavailable   = errors.New("no wallet available, please install a wallet extension")
	ErrWalletNotConnected  = errors.New("please connect your wallet first")
	ErrPurchaseInProgress  = errors.New("purchase is already in progress")
	ErrPurchaseFailed      = errors.New("transaction failed")
	ErrUnknownNetwork      = errors.New("unknown network")
	ErrTransactionReverted = errors.New("transaction reverted")
)
