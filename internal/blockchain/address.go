package blockchain

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"agrosite/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ConnectMessage is the text a Solana wallet signs to prove ownership when connecting
const ConnectMessage = "Sign this message to connect your wallet to AgroX"

var (
	ErrInvalidAddress   = errors.New("invalid wallet address")
	ErrInvalidSignature = errors.New("invalid signature")
)

// NormalizeAddress validates address for chain and returns its canonical form:
// EIP-55 checksum hex for EVM, base58 public key for Solana.
func NormalizeAddress(chain models.Blockchain, address string) (string, error) {
	switch chain {
	case models.BlockchainEVM:
		if !common.IsHexAddress(address) {
			return "", fmt.Errorf("%w: not a hex address", ErrInvalidAddress)
		}
		return common.HexToAddress(address).Hex(), nil
	case models.BlockchainSolana:
		pubKey, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		return pubKey.String(), nil
	default:
		return "", fmt.Errorf("%w: unsupported chain %q", ErrInvalidAddress, chain)
	}
}

// VerifySolanaSignature checks an ed25519 signature of ConnectMessage by address.
// The signature may be base58 or hex encoded.
func VerifySolanaSignature(address, signature string) error {
	pubKey, err := base58.Decode(address)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: bad public key", ErrInvalidAddress)
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		sig, err = hex.DecodeString(signature)
		if err != nil {
			return fmt.Errorf("%w: unrecognized encoding", ErrInvalidSignature)
		}
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: wrong length", ErrInvalidSignature)
	}

	if !ed25519.Verify(ed25519.PublicKey(pubKey), []byte(ConnectMessage), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// CanonicalAddress normalizes an address of unknown chain for lookups.
// EVM addresses are checksummed; anything else is returned unchanged.
func CanonicalAddress(address string) string {
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}
