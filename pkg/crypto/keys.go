// Package crypto provides the signing identities and frame ciphers the wire
// layer consumes.
package crypto

import (
	"crypto/rand"

	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/nm-morais/go-golem/pkg/errors"
)

const cryptoCaller = "Crypto"

type Signer interface {
	Sign(data []byte) ([]byte, error)
	KeyID() string
}

type Verifier interface {
	Verify(data, sig []byte) (bool, error)
}

// Identity is an Ed25519 key pair addressed by its libp2p peer id.
type Identity struct {
	priv libp2pcrypto.PrivKey
	pub  libp2pcrypto.PubKey
	id   peer.ID
}

func NewIdentity() (*Identity, error) {
	priv, pub, err := libp2pcrypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}
	return identityFromKeys(priv, pub)
}

// IdentityFromBytes restores an identity exported with MarshalPrivateKey.
func IdentityFromBytes(data []byte) (*Identity, error) {
	priv, err := libp2pcrypto.UnmarshalPrivateKey(data)
	if err != nil {
		return nil, err
	}
	return identityFromKeys(priv, priv.GetPublic())
}

func identityFromKeys(priv libp2pcrypto.PrivKey, pub libp2pcrypto.PubKey) (*Identity, error) {
	id, err := peer.IDFromPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Identity{priv: priv, pub: pub, id: id}, nil
}

func (i *Identity) Sign(data []byte) ([]byte, error) {
	return i.priv.Sign(data)
}

func (i *Identity) KeyID() string {
	return i.id.String()
}

func (i *Identity) PeerID() peer.ID {
	return i.id
}

func (i *Identity) Verify(data, sig []byte) (bool, error) {
	return i.pub.Verify(data, sig)
}

func (i *Identity) MarshalPrivateKey() ([]byte, error) {
	return libp2pcrypto.MarshalPrivateKey(i.priv)
}

type publicKeyVerifier struct {
	pub libp2pcrypto.PubKey
}

func (v publicKeyVerifier) Verify(data, sig []byte) (bool, error) {
	return v.pub.Verify(data, sig)
}

// VerifierFromKeyID recovers the public key inlined in a peer id. Only key
// types small enough to be inlined (Ed25519) can be recovered this way.
func VerifierFromKeyID(keyID string) (Verifier, error) {
	id, err := peer.Decode(keyID)
	if err != nil {
		return nil, errors.WrapDecodeError(cryptoCaller, err, "key id %q", keyID)
	}
	pub, err := id.ExtractPublicKey()
	if err != nil {
		return nil, errors.WrapDecodeError(cryptoCaller, err, "key id %q", keyID)
	}
	return publicKeyVerifier{pub: pub}, nil
}
