package treeservice

import (
	"crypto"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSignedRoot decodes the TreeState values from the signed message
// See VerifySignedRoot for a description of how to verify a signed root
func DecodeSignedRoot(
	codec dtcbor.CBORCodec, msg []byte,
) (*dtcose.CoseSign1Message, TreeState, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, newDecOptions()...)
	if err != nil {
		return nil, TreeState{}, err
	}

	var unverifiedState TreeState
	err = codec.UnmarshalInto(signed.Payload, &unverifiedState)
	if err != nil {
		return nil, TreeState{}, err
	}
	return signed, unverifiedState, nil
}

// VerifySignedRoot applies the provided state to the signed message and
// verifies the result
//
// Verification of a signed root is a 3 step process:
//  1. Use DecodeSignedRoot to obtain the TreeState from the signed message. This
//     state will not verify as the root was removed after signing.
//  2. Use TreeState.TreeID to load the tree and recompute its root
//  3. Set TreeState.Root and call this function to complete the verification
func VerifySignedRoot(
	codec dtcbor.CBORCodec, keyProvider publicKeyProvider, signed *dtcose.CoseSign1Message, unverifiedState TreeState, external []byte) error {

	var err error
	signed.Payload, err = codec.MarshalCBOR(unverifiedState)
	if err != nil {
		return err
	}
	return signed.VerifyWithProvider(keyProvider, external)
}
