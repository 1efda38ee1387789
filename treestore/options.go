package treestore

import (
	"github.com/datatrails/go-datatrails-common/logger"
)

type StoreOptions struct {
	Log   logger.Logger
	Codec *RecordCodec
	// Prefix is the blob path prefix. Only the blob store uses it.
	Prefix string
}

// Option is a generic option type used for store implementations.
// Implementations type assert to their options target record and if that
// fails they ignore the option.
type Option func(any)

func WithLogger(log logger.Logger) Option {
	return func(opts any) {
		if o, ok := opts.(*StoreOptions); ok {
			o.Log = log
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(opts any) {
		if o, ok := opts.(*StoreOptions); ok {
			o.Prefix = prefix
		}
	}
}

func newStoreOptions(opts ...Option) (StoreOptions, error) {
	o := StoreOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Log == nil {
		o.Log = logger.Sugar.WithServiceName("treestore")
	}
	if o.Codec == nil {
		codec, err := NewRecordCodec()
		if err != nil {
			return StoreOptions{}, err
		}
		o.Codec = &codec
	}
	return o, nil
}
