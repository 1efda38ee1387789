package treestore

import (
	"fmt"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const (
	azblobBlobNotFound      = "BlobNotFound"
	azblobBlobAlreadyExists = "BlobAlreadyExists"
	azblobConditionNotMet   = "ConditionNotMet"
)

func AsStorageError(err error) (azStorageBlob.StorageError, bool) {
	serr := &azStorageBlob.StorageError{}
	//nolint
	ierr, ok := err.(*azStorageBlob.InternalError)
	if ierr == nil || !ok {
		return azStorageBlob.StorageError{}, false
	}
	if !ierr.As(&serr) {
		return azStorageBlob.StorageError{}, false
	}
	return *serr, true
}

func hasStorageErrorCode(err error, code string) bool {
	if err == nil {
		return false
	}
	serr, ok := AsStorageError(err)
	if !ok {
		return false
	}
	return string(serr.ErrorCode) == code
}

// wrapStorageError translates the azure sdk errors that have a store level
// meaning. All other errors are returned as is, including nil.
func wrapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case hasStorageErrorCode(err, azblobBlobNotFound):
		return fmt.Errorf("%s: %w", err.Error(), ErrTreeNotFound)
	case hasStorageErrorCode(err, azblobBlobAlreadyExists):
		return fmt.Errorf("%s: %w", err.Error(), ErrExistsOC)
	case hasStorageErrorCode(err, azblobConditionNotMet):
		return fmt.Errorf("%s: %w", err.Error(), ErrContentOC)
	}
	return err
}
