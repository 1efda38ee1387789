package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/spf13/cobra"
)

const (
	DefaultConfigFile = "hashtree.toml"

	StoreMemory  = "memory"
	StoreLevelDB = "leveldb"
	StoreBlob    = "blob"
)

var ErrStoreKind = errors.New("unknown store kind")

type LoggerConfig struct {
	Level string `toml:"level"`
}

type HasherConfig struct {
	Name string `toml:"name"`
}

type StoreConfig struct {
	Kind string `toml:"kind"`
	// Path is the leveldb directory.
	Path string `toml:"path"`
	// Container and Prefix locate blob trees. The account comes from the
	// environment.
	Container string `toml:"container"`
	Prefix    string `toml:"prefix"`
	NoSync    bool   `toml:"no_sync"`
}

type SignerConfig struct {
	Issuer  string `toml:"issuer"`
	KeyFile string `toml:"key_file"`
	KeyID   string `toml:"key_id"`
}

// Config is the hashtree configuration file.
type Config struct {
	Path   string       `toml:"-"`
	Logger LoggerConfig `toml:"logger"`
	Hasher HasherConfig `toml:"hasher"`
	Store  StoreConfig  `toml:"store"`
	Signer SignerConfig `toml:"signer"`
}

func NewDefaultConfig(path string) *Config {
	return &Config{
		Path:   path,
		Logger: LoggerConfig{Level: "INFO"},
		Hasher: HasherConfig{Name: hashtree.DefaultHasher},
		Store: StoreConfig{
			Kind:      StoreLevelDB,
			Path:      "hashtree.db",
			Container: "hashtrees",
		},
		Signer: SignerConfig{
			Issuer:  "hashtree",
			KeyFile: "signing.pem",
			KeyID:   "hashtree-key-1",
		},
	}
}

// LoadConfig reads the toml file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := NewDefaultConfig(path)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	conf.Path = path
	conf.Store.Path = resolvePath(path, conf.Store.Path)
	conf.Signer.KeyFile = resolvePath(path, conf.Signer.KeyFile)
	return conf, conf.Validate()
}

// resolvePath makes file relative to the directory holding the config file.
func resolvePath(configPath, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(configPath), file)
}

func (conf *Config) Validate() error {
	switch conf.Store.Kind {
	case StoreMemory, StoreLevelDB, StoreBlob:
	default:
		return fmt.Errorf("%w: %q", ErrStoreKind, conf.Store.Kind)
	}
	if _, err := hashtree.NewHasher(conf.Hasher.Name); err != nil {
		return err
	}
	return nil
}

// Save writes the config to conf.Path.
func (conf *Config) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return err
	}
	return os.WriteFile(conf.Path, buf.Bytes(), 0644)
}

// configFromFlags loads the file named by --config, falling back to the
// defaults when the flag was not given and the default file is absent. The
// override flags are applied last.
func configFromFlags(cmd *cobra.Command) (*Config, error) {
	path := cmd.Flag("config").Value.String()

	var conf *Config
	_, statErr := os.Stat(path)
	if errors.Is(statErr, os.ErrNotExist) && !cmd.Flag("config").Changed {
		conf = NewDefaultConfig(path)
	} else {
		var err error
		if conf, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"log-level", &conf.Logger.Level},
		{"hasher", &conf.Hasher.Name},
		{"store", &conf.Store.Kind},
		{"store-path", &conf.Store.Path},
	}
	for _, o := range overrides {
		if f := cmd.Flag(o.flag); f != nil && f.Changed {
			*o.dst = f.Value.String()
		}
	}
	return conf, conf.Validate()
}
