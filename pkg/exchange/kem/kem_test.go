package kem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

func TestEncapsulateDecapsulateRoundtrip(t *testing.T) {
	pubBytes, priv, err := GenerateKeypair()
	require.NoError(t, err)
	require.Len(t, pubBytes, PublicKeySize)

	ciphertext, gatewayPSK, err := Encapsulate(pubBytes)
	require.NoError(t, err)
	require.Len(t, ciphertext, CiphertextSize)

	clientPSK, err := Decapsulate(priv, ciphertext)
	require.NoError(t, err)

	assert.Equal(t, gatewayPSK, clientPSK)
	assert.NotEqual(t, wgtypes.Key{}, clientPSK)
}

func TestEncapsulationsAreUnique(t *testing.T) {
	pubBytes, _, err := GenerateKeypair()
	require.NoError(t, err)

	_, psk1, err := Encapsulate(pubBytes)
	require.NoError(t, err)
	_, psk2, err := Encapsulate(pubBytes)
	require.NoError(t, err)

	assert.NotEqual(t, psk1, psk2)
}

func TestEncapsulateRejectsMalformedKey(t *testing.T) {
	_, _, err := Encapsulate([]byte("not a kyber key"))
	require.Error(t, err)
}
