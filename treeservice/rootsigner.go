package treeservice

import (
	"crypto/ecdsa"
	"crypto/rand"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// TreeState defines the details we include in our signed commitment to a tree
// snapshot.
type TreeState struct {
	// TreeID identifies the tree. Together with LeafCount it is enough to
	// locate the snapshot and recompute Root.
	TreeID    []byte `cbor:"1,keyasint"`
	LeafCount uint64 `cbor:"2,keyasint"`
	Root      []byte `cbor:"3,keyasint"`
	// Timestamp is the unix time (milliseconds) read at the time the root was
	// signed. Including it allows for the same root to be re-signed.
	Timestamp int64 `cbor:"4,keyasint"`
	// Hasher names the digest algorithm the root was computed with.
	Hasher string `cbor:"5,keyasint"`
}

// IdentifiableCoseSigner is a cose signer that can also provide what a
// verifier needs: an identifier for the signing key and the public key.
type IdentifiableCoseSigner interface {
	cose.Signer
	PublicKey() (*ecdsa.PublicKey, error)
	KeyIdentifier() string
}

// RootSigner is used to produce a signature over a tree state.
type RootSigner struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewRootSigner(issuer string, cborCodec dtcbor.CBORCodec) RootSigner {
	rs := RootSigner{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
	return rs
}

// Sign1 signs the provided state.
//
// The root is removed from the published message after signing, verifiers
// must recompute it from the tree. See VerifySignedRoot.
func (rs RootSigner) Sign1(coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey, subject string, state TreeState, external []byte) ([]byte, error) {
	payload, err := rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				rs.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	err = msg.Sign(rand.Reader, external, coseSigner)
	if err != nil {
		return nil, err
	}

	// We purposefully detach the root so that verifiers are forced to obtain it
	// from the tree.
	state.Root = nil
	payload, err = rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}
	msg.Payload = payload

	return msg.MarshalCBOR()
}

func NewRootSignerCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

func newDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}
