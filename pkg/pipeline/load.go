package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/barstack/pkg/chart"
	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/httputil"
)

// StdinSource is the Source value that reads the figure from stdin.
const StdinSource = "-"

// MaxFigureBytes caps figures read from files and stdin.
const MaxFigureBytes = httputil.DefaultMaxBytes

// readSource returns the raw figure document and a name used to pick the
// decoder. hit reports a cached remote figure.
func (r *Runner) readSource(ctx context.Context, opts Options) (data []byte, name string, hit bool, err error) {
	switch {
	case len(opts.Figure) > 0:
		return opts.Figure, "", false, nil

	case opts.Source == StdinSource:
		data, err = readLimited(r.Stdin)
		if err != nil {
			return nil, "", false, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, "", false, nil

	case httputil.IsURL(opts.Source):
		f := r.fetcher()
		if opts.Refresh {
			_ = f.Cache.Delete(ctx, f.Keyer.FigureKey(opts.Source))
		}
		data, hit, err = f.Fetch(ctx, opts.Source)
		return data, opts.Source, hit, err

	default:
		if err := errs.ValidatePath(opts.Source, false); err != nil {
			return nil, "", false, err
		}
		fh, err := os.Open(opts.Source)
		if os.IsNotExist(err) {
			return nil, "", false, errs.Wrap(errs.ErrCodeFileNotFound, err, "figure %s", opts.Source)
		}
		if err != nil {
			return nil, "", false, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", opts.Source)
		}
		defer fh.Close()
		data, err = readLimited(fh)
		if err != nil {
			return nil, "", false, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", opts.Source)
		}
		return data, filepath.Base(opts.Source), false, nil
	}
}

func readLimited(rd io.Reader) ([]byte, error) {
	if rd == nil {
		rd = os.Stdin
	}
	data, err := io.ReadAll(io.LimitReader(rd, MaxFigureBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFigureBytes {
		return nil, errs.New(errs.ErrCodeInvalidInput, "figure exceeds %d bytes", MaxFigureBytes)
	}
	return data, nil
}

// LoadFigure decodes and validates a figure document. name selects the
// decoder by extension; see [chart.Decode].
func LoadFigure(name string, data []byte) (*chart.Figure, error) {
	fig, err := chart.Decode(name, data)
	if err != nil {
		return nil, err
	}
	if err := fig.Validate(); err != nil {
		return nil, err
	}
	return fig, nil
}
