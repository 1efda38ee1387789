package treeservice

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/veraison/go-cose"
)

var (
	ErrUnsupportedCurve = errors.New("unsupported elliptic curve")
	ErrKeyPEM           = errors.New("no EC PRIVATE KEY block found")
)

// ECSigner signs with an in process ecdsa key.
type ECSigner struct {
	cose.Signer
	key *ecdsa.PrivateKey
	kid string
}

var _ IdentifiableCoseSigner = (*ECSigner)(nil)

func NewECSigner(key *ecdsa.PrivateKey, kid string) (*ECSigner, error) {
	alg, err := curveAlgorithm(key.Curve)
	if err != nil {
		return nil, err
	}
	signer, err := cose.NewSigner(alg, key)
	if err != nil {
		return nil, err
	}
	return &ECSigner{Signer: signer, key: key, kid: kid}, nil
}

func (s *ECSigner) PublicKey() (*ecdsa.PublicKey, error) { return &s.key.PublicKey, nil }

func (s *ECSigner) KeyIdentifier() string { return s.kid }

func curveAlgorithm(curve elliptic.Curve) (cose.Algorithm, error) {
	switch curve {
	case elliptic.P256():
		return cose.AlgorithmES256, nil
	case elliptic.P384():
		return cose.AlgorithmES384, nil
	case elliptic.P521():
		return cose.AlgorithmES512, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurve, curve.Params().Name)
}

// GenerateECKeyPEM returns a new P-256 key, PEM encoded.
func GenerateECKeyPEM() ([]byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// ParseECKeyPEM parses the first EC PRIVATE KEY block in data.
func ParseECKeyPEM(data []byte) (*ecdsa.PrivateKey, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, ErrKeyPEM
		}
		if block.Type == "EC PRIVATE KEY" {
			return x509.ParseECPrivateKey(block.Bytes)
		}
	}
}

// LoadECSigner reads a PEM encoded key from keyFile.
func LoadECSigner(keyFile string, kid string) (*ECSigner, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, err
	}
	key, err := ParseECKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyFile, err)
	}
	return NewECSigner(key, kid)
}
