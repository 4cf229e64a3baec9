// Package assetpipe is a build-time asset pipeline for images.
//
// A host build tool hands the plugin the paths of imported image files. Each
// matching file is read, optionally run through an ordered list of backends
// (jpeg, png, gif and svg re-encoders by default), content-hashed, and given an
// output name from a template such as "[name]-[hash][extname]". The import is
// replaced by a module exporting the asset URL. Once the host has loaded every
// module, Finalize writes all registered assets to the output directory.
//
// Basic usage:
//
//	p, _ := assetpipe.New(assetpipe.Options{
//	    HashLength: assetpipe.Int(8),
//	    PublicPath: assetpipe.String("/static/"),
//	})
//	defer p.Close()
//
//	build := p.BuildStart(ctx)
//	mod, _ := build.Load(ctx, "src/assets/logo.png") // nil when filtered out
//	fmt.Println(mod.Code)
//	// export default new URL("/static/logo-1f2e3d4c.png", import.meta.url).href;
//
//	_ = build.Finalize(ctx, assetpipe.Output{Dir: "dist"})
//
// Custom backends:
//
//	webp := func(opts assetpipe.BackendOptions) assetpipe.Backend {
//	    return assetpipe.BackendFunc(func(ctx context.Context, b []byte) ([]byte, error) {
//	        return b, nil
//	    })
//	}
//	p, _ := assetpipe.New(assetpipe.Options{
//	    BackendFactories: []assetpipe.NamedFactory{{Name: "webp", Factory: webp}},
//	    Backends:         map[string]assetpipe.BackendOptions{"webp": {"quality": 75}},
//	})
//
// Every BuildStart returns a fresh Build, so repeated builds (watch mode)
// never emit assets left over from an earlier pass.
package assetpipe
