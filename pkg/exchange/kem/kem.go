// Package kem implements the post-quantum half of the ephemeral peer exchange:
// a one-shot Kyber1024 encapsulation whose shared secret both sides stretch
// into a WireGuard pre-shared key.
package kem

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"golang.org/x/crypto/hkdf"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const (
	PublicKeySize  = kyber1024.PublicKeySize
	CiphertextSize = kyber1024.CiphertextSize

	pskInfo = "wg-rekey ephemeral psk v1"
)

// GenerateKeypair creates a fresh one-shot Kyber1024 keypair. The serialized
// public key travels to the gateway; the private key stays local for
// decapsulating the response.
func GenerateKeypair() ([]byte, kem.PrivateKey, error) {
	scheme := kyber1024.Scheme()

	publicKey, privateKey, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate kyber keypair: %w", err)
	}

	pubBytes, err := publicKey.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal kyber public key: %w", err)
	}

	return pubBytes, privateKey, nil
}

// Encapsulate derives a fresh shared secret against the peer's public key and
// returns the ciphertext alongside the PSK stretched from the secret.
func Encapsulate(peerPublicKey []byte) ([]byte, wgtypes.Key, error) {
	scheme := kyber1024.Scheme()

	pubKey, err := scheme.UnmarshalBinaryPublicKey(peerPublicKey)
	if err != nil {
		return nil, wgtypes.Key{}, fmt.Errorf("failed to unmarshal kyber public key: %w", err)
	}

	ciphertext, shared, err := scheme.Encapsulate(pubKey)
	if err != nil {
		return nil, wgtypes.Key{}, fmt.Errorf("encapsulation failed: %w", err)
	}
	defer zero(shared)

	psk, err := derivePSK(shared)
	if err != nil {
		return nil, wgtypes.Key{}, err
	}

	return ciphertext, psk, nil
}

// Decapsulate recovers the shared secret from the gateway's ciphertext and
// stretches it into the PSK. Both sides end up with the same key.
func Decapsulate(privateKey kem.PrivateKey, ciphertext []byte) (wgtypes.Key, error) {
	scheme := kyber1024.Scheme()

	shared, err := scheme.Decapsulate(privateKey, ciphertext)
	if err != nil {
		return wgtypes.Key{}, fmt.Errorf("decapsulation failed: %w", err)
	}
	defer zero(shared)

	return derivePSK(shared)
}

func derivePSK(shared []byte) (wgtypes.Key, error) {
	var psk wgtypes.Key
	kdf := hkdf.New(sha256.New, shared, nil, []byte(pskInfo))
	if _, err := io.ReadFull(kdf, psk[:]); err != nil {
		return wgtypes.Key{}, fmt.Errorf("failed to derive psk: %w", err)
	}
	return psk, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
