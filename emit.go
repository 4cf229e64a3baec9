package assetpipe

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/aweris/assetpipe/internal/compression"
	"github.com/aweris/assetpipe/internal/logging"
	"github.com/aweris/assetpipe/internal/store"
)

// emitter writes a sealed registry to disk. Every asset is attempted even
// when others fail; failures come back joined.
type emitter struct {
	fs          afero.Fs
	compressor  *compression.Compressor
	concurrency int
	logger      zerolog.Logger
}

func (e *emitter) emit(ctx context.Context, registry *store.Registry, root string) error {
	done := logging.LogOperationStart(e.logger, "emit")
	defer done()

	out := store.NewOutput(e.fs, root)
	p := pool.New().
		WithMaxGoroutines(e.concurrency).
		WithErrors().
		WithContext(ctx)
	for path, data := range registry.Entries() {
		p.Go(func(ctx context.Context) error {
			return e.write(ctx, out, path, data)
		})
	}
	if err := p.Wait(); err != nil {
		e.logger.Error().Err(err).Str("root", root).Msg("Emission finished with errors")
		return err
	}

	e.logger.Debug().Int("assets", registry.Len()).Str("root", root).Msg("Emitted assets")
	return nil
}

func (e *emitter) write(ctx context.Context, out *store.Output, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindWrite, Path: path, Err: err}
	}
	if err := out.MkdirFor(path); err != nil {
		return &Error{Kind: KindDirCreate, Path: path, Err: err}
	}
	if err := out.Write(path, data); err != nil {
		return &Error{Kind: KindWrite, Path: path, Err: err}
	}
	e.logger.Trace().Str("asset", path).Int("size", len(data)).Msg("Wrote asset")

	variants, err := e.compressor.Variants(data)
	if err != nil {
		return &Error{Kind: KindWrite, Path: path, Err: err}
	}
	var errs []error
	for _, v := range variants {
		if err := out.Write(path+v.Ext, v.Data); err != nil {
			errs = append(errs, &Error{Kind: KindWrite, Path: path + v.Ext, Err: err})
		}
	}
	return errors.Join(errs...)
}
