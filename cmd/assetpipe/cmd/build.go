package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/assetpipe"
	"github.com/aweris/assetpipe/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:   "build <path>...",
	Short: "Optimize and emit assets",
	Long: `Process every file below the given paths that matches the include patterns,
then write the results to the output directory. Directories are walked recursively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	defaults := assetpipe.DefaultConfig()

	f := buildCmd.Flags()
	f.StringP("out", "o", "dist", "output directory")
	f.Bool("disable", defaults.Disable, "skip optimization, only fingerprint and emit")
	f.Bool("verbose", defaults.Verbose, "report per-asset size changes")
	f.Bool("emit-files", defaults.EmitFiles, "write assets to the output directory")
	f.Int("hash-length", defaults.HashLength, "number of hex characters of the content hash")
	f.String("hash-algorithm", defaults.HashAlgorithm, "content hash: sha1, sha256 or blake3")
	f.StringSlice("include", defaults.Include, "glob patterns of assets to process")
	f.StringSlice("exclude", defaults.Exclude, "glob patterns of assets to skip")
	f.String("file-name", defaults.FileName, "output path template using [name], [hash] and [extname]")
	f.String("public-path", defaults.PublicPath, "prefix of emitted asset URLs")
	f.String("preserve-tree", "", `keep directory layout relative to this root ("true" for the working directory)`)
	f.StringSlice("precompress", defaults.Precompress, "also write compressed variants: gzip, zstd")
	f.Int("concurrency", 0, "assets processed in parallel (default: number of CPUs)")

	for key, flag := range map[string]string{
		"out":           "out",
		"disable":       "disable",
		"verbose":       "verbose",
		"emitFiles":     "emit-files",
		"hashLength":    "hash-length",
		"hashAlgorithm": "hash-algorithm",
		"include":       "include",
		"exclude":       "exclude",
		"fileName":      "file-name",
		"publicPath":    "public-path",
		"preserveTree":  "preserve-tree",
		"precompress":   "precompress",
		"concurrency":   "concurrency",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) (err error) {
	// Per-asset reports are logged at info level.
	if verbosity, _ := cmd.Flags().GetCount("verbose-log"); viper.GetBool("verbose") && verbosity < 1 {
		logging.SetupLogger(1, os.Stderr)
	}
	logger := logging.GetLogger("build")

	opts, err := assetpipe.OptionsFromMap(viper.AllSettings())
	if err != nil {
		return err
	}

	p, err := assetpipe.New(opts, assetpipe.WithConcurrency(viper.GetInt("concurrency")))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fs := afero.NewOsFs()
	var ids []string
	for _, arg := range args {
		files, err := collect(fs, arg)
		if err != nil {
			return err
		}
		ids = append(ids, files...)
	}
	logger.Debug().Int("files", len(ids)).Msg("Collected input files")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	build := p.BuildStart(ctx)
	modules, loadErr := build.LoadAll(ctx, ids)

	out := viper.GetString("out")
	if err := build.Finalize(ctx, assetpipe.Output{Dir: out}); err != nil {
		return fmt.Errorf("emit failed: %w", err)
	}
	if loadErr != nil {
		return fmt.Errorf("load failed: %w", loadErr)
	}

	for _, m := range modules {
		logger.Info().Str("source", m.Source).Str("output", m.OutputPath).Msg("Processed")
	}
	fmt.Fprintf(os.Stderr, "Done. %d assets in %s\n", build.Len(), out)
	return nil
}

// collect returns path itself when it is a file, or every regular file below
// it when it is a directory.
func collect(fs afero.Fs, path string) ([]string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = afero.Walk(fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, filepath.Clean(p))
		}
		return nil
	})
	return files, err
}
