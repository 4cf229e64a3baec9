package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aweris/assetpipe"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration",
	Long:  "Print the default configuration as YAML, suitable as a starting point for assetpipe.yaml.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(defaultsDocument(assetpipe.DefaultConfig())); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}

func defaultsDocument(cfg assetpipe.Config) map[string]any {
	doc := map[string]any{
		"disable":       cfg.Disable,
		"verbose":       cfg.Verbose,
		"emitFiles":     cfg.EmitFiles,
		"hashLength":    cfg.HashLength,
		"hashAlgorithm": cfg.HashAlgorithm,
		"include":       cfg.Include,
		"exclude":       nonNil(cfg.Exclude),
		"fileName":      cfg.FileName,
		"publicPath":    cfg.PublicPath,
		"preserveTree":  cfg.PreserveTree.Enabled,
		"precompress":   nonNil(cfg.Precompress),
	}
	for _, b := range cfg.Backends {
		doc[b.Name] = map[string]any(b.Options)
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
