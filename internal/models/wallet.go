package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletType string

const (
	WalletTypeMetaMask      WalletType = "metamask"
	WalletTypeWalletConnect WalletType = "walletconnect"
	WalletTypeTrustWallet   WalletType = "trustwallet"
	WalletTypeBinance       WalletType = "binance"
	WalletTypePhantom       WalletType = "phantom"
	WalletTypeSolflare      WalletType = "solflare"
)

type Blockchain string

const (
	BlockchainEVM    Blockchain = "EVM"
	BlockchainSolana Blockchain = "SOLANA"
)

// Chain returns the chain family a wallet type signs for, or false when the type is unknown
func (t WalletType) Chain() (Blockchain, bool) {
	switch t {
	case WalletTypeMetaMask, WalletTypeWalletConnect, WalletTypeTrustWallet, WalletTypeBinance:
		return BlockchainEVM, true
	case WalletTypePhantom, WalletTypeSolflare:
		return BlockchainSolana, true
	}
	return "", false
}

// WalletTypes lists every supported wallet type in display order
func WalletTypes() []WalletType {
	return []WalletType{
		WalletTypeMetaMask,
		WalletTypeWalletConnect,
		WalletTypeTrustWallet,
		WalletTypeBinance,
		WalletTypePhantom,
		WalletTypeSolflare,
	}
}

// Wallet represents a blockchain wallet linked to a user account.
// AGROX balances are simulated and only change through UpdateBalance.
type Wallet struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Address      string          `gorm:"uniqueIndex;size:255;not null" json:"address"`
	WalletType   WalletType      `gorm:"size:30;not null" json:"wallet_type"`
	Blockchain   Blockchain      `gorm:"size:20;not null;default:EVM" json:"blockchain"`
	BalanceAgrox decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance_agrox"`
	IsVerified   bool            `gorm:"default:false" json:"is_verified"`
	ConnectedAt  time.Time       `json:"connected_at"`
	LastActive   time.Time       `json:"last_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// ConnectWalletRequest represents the request to link a wallet
type ConnectWalletRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Address    string `json:"address" binding:"required"`
	WalletType string `json:"wallet_type" binding:"required"`
	Signature  string `json:"signature"`
}

// UpdateBalanceRequest represents a simulated AGROX balance update
type UpdateBalanceRequest struct {
	Address string           `json:"address" binding:"required"`
	Balance *decimal.Decimal `json:"balance" binding:"required"`
}

// DisconnectWalletRequest represents the request to unlink a wallet
type DisconnectWalletRequest struct {
	Address string `json:"address" binding:"required"`
}
