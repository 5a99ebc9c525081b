package blockchain

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"agrosite/internal/models"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		chain   models.Blockchain
		address string
		want    string
		wantErr bool
	}{
		{
			name:    "evm lowercase is checksummed",
			chain:   models.BlockchainEVM,
			address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			want:    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			name:    "evm too short",
			chain:   models.BlockchainEVM,
			address: "0x1234",
			wantErr: true,
		},
		{
			name:    "evm not hex",
			chain:   models.BlockchainEVM,
			address: "0xZZaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			wantErr: true,
		},
		{
			name:    "solana system program",
			chain:   models.BlockchainSolana,
			address: "11111111111111111111111111111111",
			want:    "11111111111111111111111111111111",
		},
		{
			name:    "solana invalid base58",
			chain:   models.BlockchainSolana,
			address: "0OIl-not-base58",
			wantErr: true,
		},
		{
			name:    "evm address on solana",
			chain:   models.BlockchainSolana,
			address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			wantErr: true,
		},
		{
			name:    "unknown chain",
			chain:   "BITCOIN",
			address: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.chain, tt.address)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifySolanaSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	address := base58.Encode(pub)
	sig := ed25519.Sign(priv, []byte(ConnectMessage))

	assert.NoError(t, VerifySolanaSignature(address, base58.Encode(sig)))
	assert.NoError(t, VerifySolanaSignature(address, hex.EncodeToString(sig)))

	wrong := ed25519.Sign(priv, []byte("something else"))
	assert.ErrorIs(t, VerifySolanaSignature(address, base58.Encode(wrong)), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySolanaSignature(address, "!!"), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySolanaSignature("bad", base58.Encode(sig)), ErrInvalidAddress)
}

func TestCanonicalAddress(t *testing.T) {
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", CanonicalAddress("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"))
	assert.Equal(t, "11111111111111111111111111111111", CanonicalAddress("11111111111111111111111111111111"))
}
