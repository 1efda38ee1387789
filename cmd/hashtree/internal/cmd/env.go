package cmd

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-hashtree/treeservice"
	"github.com/forestrie/go-hashtree/treestore"
	"github.com/spf13/cobra"
)

// env is what every tree command needs: the loaded config, a store and a
// service over it.
type env struct {
	conf    *Config
	log     logger.Logger
	store   treestore.TreeStore
	service *treeservice.Service
	closers []func() error
}

func newEnv(cmd *cobra.Command, withSigner bool) (*env, error) {
	conf, err := configFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	logger.New(conf.Logger.Level)

	e := &env{conf: conf, log: logger.Sugar.WithServiceName("hashtree")}
	e.store, err = e.openStore()
	if err != nil {
		return nil, err
	}

	opts := []treeservice.Option{treeservice.WithLogger(e.log)}
	if withSigner {
		signer, err := treeservice.LoadECSigner(conf.Signer.KeyFile, conf.Signer.KeyID)
		if err != nil {
			e.Close()
			return nil, err
		}
		opts = append(opts, treeservice.WithRootSigner(signer))
	}

	e.service, err = treeservice.New(treeservice.Config{
		Hasher: conf.Hasher.Name,
		Issuer: conf.Signer.Issuer,
	}, e.store, opts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) openStore() (treestore.TreeStore, error) {
	opts := []treestore.Option{treestore.WithLogger(e.log)}
	if e.conf.Store.Prefix != "" {
		opts = append(opts, treestore.WithPrefix(e.conf.Store.Prefix))
	}

	switch e.conf.Store.Kind {
	case StoreMemory:
		return treestore.NewMemoryStore(opts...)
	case StoreLevelDB:
		s, err := treestore.OpenLevelDB(treestore.LevelDBConfig{
			Path:   e.conf.Store.Path,
			NoSync: e.conf.Store.NoSync,
		}, opts...)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, s.Close)
		return s, nil
	case StoreBlob:
		storer, err := azblob.NewDev(azblob.NewDevConfigFromEnv(), e.conf.Store.Container)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to blob store: %w", err)
		}
		return treestore.NewBlobStore(storer, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrStoreKind, e.conf.Store.Kind)
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.log.Infof("close: %v", err)
		}
	}
	e.closers = nil
}
