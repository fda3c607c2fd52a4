package crypto

import (
	"crypto/cipher"
	"crypto/rand"

	"github.com/nm-morais/go-golem/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// SealedFrameTag prefixes every encrypted frame. A plaintext envelope always
// starts with a CBOR array header, which can never equal this byte.
const SealedFrameTag byte = 0xE7

// SessionCipher seals frames with XChaCha20-Poly1305 under a session key.
type SessionCipher struct {
	aead cipher.AEAD
}

func NewSessionCipher(key []byte) (*SessionCipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &SessionCipher{aead: aead}, nil
}

// Encrypt returns tag | nonce | ciphertext.
func (c *SessionCipher) Encrypt(plain []byte) ([]byte, error) {
	out := make([]byte, 1+c.aead.NonceSize(), 1+c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	out[0] = SealedFrameTag
	nonce := out[1:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(out, nonce, plain, nil), nil
}

// Decrypt reports errors.ErrNotEncrypted for frames that do not carry the
// sealed layout, and a DecryptionError when authentication fails.
func (c *SessionCipher) Decrypt(frame []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(frame) < 1+ns+c.aead.Overhead() || frame[0] != SealedFrameTag {
		return nil, errors.ErrNotEncrypted
	}
	plain, err := c.aead.Open(nil, frame[1:1+ns], frame[1+ns:], nil)
	if err != nil {
		return nil, errors.NewDecryptionError(cryptoCaller, err)
	}
	return plain, nil
}

// NoopDecryptor treats every frame as plaintext.
type NoopDecryptor struct{}

func (NoopDecryptor) Decrypt([]byte) ([]byte, error) {
	return nil, errors.ErrNotEncrypted
}
