package signer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	entity, err := openpgp.NewEntity("archcat test", "", "archcat@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "key.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestGPGSignerDetachedSignatureVerifies(t *testing.T) {
	s, err := NewGPGSigner(writeTestKey(t), "")
	require.NoError(t, err)

	data := []byte(`{"archetypes":[]}`)
	sig, err := s.SignDetached(data)
	require.NoError(t, err)
	assert.Contains(t, string(sig), "BEGIN PGP SIGNATURE")

	pub, err := s.GetPublicKey()
	require.NoError(t, err)

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	require.NoError(t, err)

	signer, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), bytes.NewReader(sig), nil)
	require.NoError(t, err)
	assert.Equal(t, s.entity.PrimaryKey.KeyId, signer.PrimaryKey.KeyId)
	assert.Len(t, s.Fingerprint(), 40)
}

func TestNewGPGSignerErrors(t *testing.T) {
	_, err := NewGPGSigner("", "")
	assert.Error(t, err)

	_, err = NewGPGSigner(filepath.Join(t.TempDir(), "missing.asc"), "")
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.asc")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	_, err = NewGPGSigner(garbage, "")
	assert.Error(t, err)
}

func TestNewGPGSignerPublicKeyOnly(t *testing.T) {
	entity, err := openpgp.NewEntity("archcat test", "", "archcat@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "pub.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	_, err = NewGPGSigner(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no private key")
}

func TestNewGPGSignerEncryptedKey(t *testing.T) {
	entity, err := openpgp.NewEntity("archcat test", "", "archcat@example.com", nil)
	require.NoError(t, err)

	passphrase := []byte("correct horse")
	require.NoError(t, entity.PrivateKey.Encrypt(passphrase))
	for _, subkey := range entity.Subkeys {
		require.NoError(t, subkey.PrivateKey.Encrypt(passphrase))
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivateWithoutSigning(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "encrypted.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	_, err = NewGPGSigner(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no passphrase")

	_, err = NewGPGSigner(path, "wrong")
	assert.Error(t, err)

	s, err := NewGPGSigner(path, string(passphrase))
	require.NoError(t, err)

	sig, err := s.SignDetached([]byte("catalog"))
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
}
