package treestore

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	V1TreePrefix     = "v1/hashtrees"
	treePathSegment  = "tree/"
	treeBlobExt      = ".cbor"
	lenUUIDString    = 36
	defaultBlobGroup = "default"
)

// TreeBlobPrefix returns the path prefix under which all trees of group are
// stored.
//
//	v1/hashtrees/{group}/tree/
func TreeBlobPrefix(group string) string {
	if group == "" {
		group = defaultBlobGroup
	}
	return fmt.Sprintf("%s/%s/%s", V1TreePrefix, group, treePathSegment)
}

// TreeBlobPath returns the blob path for the tree id
//
//	v1/hashtrees/{group}/tree/{uuid}.cbor
func TreeBlobPath(group string, id uuid.UUID) string {
	return TreeBlobPrefix(group) + id.String() + treeBlobExt
}

// TreeIDFromPath recovers the tree id from a blob path produced by
// TreeBlobPath. uuid.Nil is returned if the path does not contain one.
func TreeIDFromPath(blobPath string) uuid.UUID {
	i := strings.Index(blobPath, treePathSegment)
	if i == -1 {
		return uuid.Nil
	}
	rest := blobPath[i+len(treePathSegment):]
	if len(rest) < lenUUIDString {
		return uuid.Nil
	}
	id, err := uuid.Parse(rest[:lenUUIDString])
	if err != nil {
		return uuid.Nil
	}
	return id
}
