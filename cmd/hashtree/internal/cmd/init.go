package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forestrie/go-hashtree/treeservice"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file and signing key for hashtree.",
	Long: `Create a configuration file and signing key for hashtree.

Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: initRunFunc,
}

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("dir", "d", ".", "Location of directory for storing generated files")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing files")
}

func initRunFunc(cmd *cobra.Command, args []string) error {
	dir := cmd.Flag("dir").Value.String()
	force, _ := cmd.Flags().GetBool("force")

	conf := NewDefaultConfig(filepath.Join(dir, DefaultConfigFile))
	if err := writeOnce(conf.Path, force, conf.Save); err != nil {
		return err
	}
	keyFile := filepath.Join(dir, conf.Signer.KeyFile)
	if err := writeOnce(keyFile, force, func() error { return mkSigningKey(keyFile) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", conf.Path, keyFile)
	return nil
}

func writeOnce(path string, force bool, write func() error) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return write()
}

func mkSigningKey(path string) error {
	data, err := treeservice.GenerateECKeyPEM()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
