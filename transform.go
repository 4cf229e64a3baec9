package assetpipe

import "context"

// transform threads data through every backend in order. With Disable set
// the input is returned untouched. The first failing backend aborts the
// sequence with a codec error and no partial output.
func (p *Plugin) transform(ctx context.Context, path string, data []byte) ([]byte, error) {
	if p.cfg.Disable {
		return data, nil
	}

	buf := data
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := s.backend.Encode(ctx, buf)
		if err != nil {
			return nil, &Error{Kind: KindCodec, Path: path, Backend: s.name, Err: err}
		}
		buf = out
	}
	return buf, nil
}
