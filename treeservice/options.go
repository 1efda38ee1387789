package treeservice

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-hashtree/hashtree"
)

type Config struct {
	// Hasher names the digest algorithm for new trees. Defaults to
	// hashtree.DefaultHasher.
	Hasher string
	// Issuer is the issuer claim of signed roots.
	Issuer string
}

type Option func(*Service)

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithHasher overrides Config.Hasher with an already constructed hasher.
func WithHasher(h *hashtree.Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithRootSigner enables SignRoot.
func WithRootSigner(signer IdentifiableCoseSigner) Option {
	return func(s *Service) {
		s.coseSigner = signer
	}
}

// WithClock replaces the millisecond clock used to timestamp signed roots.
func WithClock(nowMS func() int64) Option {
	return func(s *Service) {
		s.nowMS = nowMS
	}
}
