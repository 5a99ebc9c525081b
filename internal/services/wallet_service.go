package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrosite/internal/blockchain"
	"agrosite/internal/models"
	"agrosite/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// WalletService links user accounts to EVM and Solana wallets and tracks simulated AGROX balances
type WalletService struct {
	repo *repository.Repository
	now  func() time.Time
}

// NewWalletService creates a new wallet service
func NewWalletService(repo *repository.Repository) *WalletService {
	return &WalletService{repo: repo, now: time.Now}
}

// ConnectWallet links address to a user. An address that is already linked only has its
// activity refreshed, and created is false.
func (s *WalletService) ConnectWallet(ctx context.Context, req models.ConnectWalletRequest) (wallet *models.Wallet, created bool, err error) {
	walletType := models.WalletType(strings.ToLower(strings.TrimSpace(req.WalletType)))
	chain, ok := walletType.Chain()
	if !ok {
		names := make([]string, 0, len(models.WalletTypes()))
		for _, t := range models.WalletTypes() {
			names = append(names, string(t))
		}
		return nil, false, fmt.Errorf("%w: invalid wallet_type, must be one of: %s", ErrInvalidArgument, strings.Join(names, ", "))
	}

	address, err := blockchain.NormalizeAddress(chain, strings.TrimSpace(req.Address))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	exists, err := s.repo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, false, fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
	}

	verified := false
	if req.Signature != "" {
		if chain != models.BlockchainSolana {
			return nil, false, fmt.Errorf("%w: signature verification is only supported for Solana wallets", ErrInvalidArgument)
		}
		if err := blockchain.VerifySolanaSignature(address, req.Signature); err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		verified = true
	}

	now := s.now().UTC()
	existing, err := s.repo.GetWalletByAddress(ctx, address)
	if err == nil {
		if existing.UserID != req.UserID {
			return nil, false, fmt.Errorf("%w: wallet is already connected to another account", ErrAlreadyExists)
		}
		if _, err := s.repo.TouchWallet(ctx, address, now); err != nil {
			return nil, false, fmt.Errorf("failed to update wallet: %w", err)
		}
		existing.LastActive = now
		return existing, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, fmt.Errorf("failed to look up wallet: %w", err)
	}

	wallet = &models.Wallet{
		UserID:       req.UserID,
		Address:      address,
		WalletType:   walletType,
		Blockchain:   chain,
		BalanceAgrox: decimal.Zero,
		IsVerified:   verified,
		ConnectedAt:  now,
		LastActive:   now,
	}
	if err := s.repo.CreateWallet(ctx, wallet); err != nil {
		return nil, false, fmt.Errorf("failed to create wallet: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     wallet.UserID,
		"address":     wallet.Address,
		"wallet_type": wallet.WalletType,
		"verified":    wallet.IsVerified,
	}).Info("wallet connected")

	return wallet, true, nil
}

// DisconnectWallet removes the link for address
func (s *WalletService) DisconnectWallet(ctx context.Context, address string) error {
	address = blockchain.CanonicalAddress(strings.TrimSpace(address))
	rows, err := s.repo.DeleteWallet(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to disconnect wallet: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: wallet %s", ErrNotFound, address)
	}

	logrus.WithField("address", address).Info("wallet disconnected")
	return nil
}

// GetUserWallets lists every wallet linked to userID
func (s *WalletService) GetUserWallets(ctx context.Context, userID uint) ([]models.Wallet, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return s.repo.ListWalletsByUser(ctx, userID)
}

// GetWallet retrieves a wallet by address
func (s *WalletService) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	address = blockchain.CanonicalAddress(strings.TrimSpace(address))
	wallet, err := s.repo.GetWalletByAddress(ctx, address)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: wallet %s", ErrNotFound, address)
		}
		return nil, err
	}
	return wallet, nil
}

// UpdateBalance sets the simulated AGROX balance of a wallet
func (s *WalletService) UpdateBalance(ctx context.Context, address string, balance decimal.Decimal) (*models.Wallet, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", ErrInvalidArgument)
	}

	address = blockchain.CanonicalAddress(strings.TrimSpace(address))
	rows, err := s.repo.UpdateWalletBalance(ctx, address, balance, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: wallet %s", ErrNotFound, address)
	}
	return s.GetWallet(ctx, address)
}
