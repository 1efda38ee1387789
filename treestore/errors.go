package treestore

import "errors"

var (
	ErrTreeNotFound   = errors.New("tree not found")
	ErrExistsOC       = errors.New("optimistic concurrency failure, tree already exists")
	ErrContentOC      = errors.New("optimistic concurrency failure, tree to replace does not match expected content")
	ErrRecordVersion  = errors.New("unsupported tree record version")
	ErrRecordInvalid  = errors.New("tree record is invalid")
	ErrStoreNotOpened = errors.New("the store is not open")
)
