package chain

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer produces EIP-712 signatures over typed trade messages. The message
// builders never sign anything themselves; they hand the typed structure to
// a Signer and receive the signature back.
type Signer interface {
	Address() common.Address
	SignTypedData(data apitypes.TypedData) (string, error)
}

// PrivateKeySigner signs typed data with a local secp256k1 private key.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeySigner creates a signer from a hex-encoded private key, with
// or without the 0x prefix.
func NewPrivateKeySigner(hexKey string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the wallet address corresponding to the signing key.
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignTypedData signs the EIP-712 digest of the typed data and returns the
// 65-byte signature hex-encoded, with the recovery id shifted to 27/28.
func (s *PrivateKeySigner) SignTypedData(data apitypes.TypedData) (string, error) {
	digest, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}

	signature, err := crypto.Sign(digest, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign typed data: %w", err)
	}

	signature[64] += 27

	return hexutil.Encode(signature), nil
}
