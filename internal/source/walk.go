package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sharpfind/sf/internal/model"
)

// WalkSource enumerates regular files below the root with filepath.WalkDir.
// Only the extension predicate is applied here, on the entry name, so that
// the stat call behind DirEntry.Info is skipped for files of other types.
type WalkSource struct {
	spec   model.FilterSpec
	logger *slog.Logger
}

// Compile-time check that WalkSource implements Source.
var _ Source = (*WalkSource)(nil)

// NewWalkSource creates a walk over spec.Root.
func NewWalkSource(spec model.FilterSpec, logger *slog.Logger) *WalkSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalkSource{spec: spec, logger: logger}
}

// Backend returns model.BackendWalk.
func (w *WalkSource) Backend() model.Backend {
	return model.BackendWalk
}

// Candidates walks the tree in directory order. Symbolic links are not
// followed, except for the root itself. Entries that cannot be read are
// skipped; only a root that cannot be walked ends the sequence with an error
// wrapping ErrEnumeration.
func (w *WalkSource) Candidates(ctx context.Context) iter.Seq2[model.Candidate, error] {
	return func(yield func(model.Candidate, error) bool) {
		root := w.spec.Root

		walkRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield(model.Candidate{}, fmt.Errorf("%w: %w", ErrEnumeration, err))
			return
		}
		info, err := os.Stat(walkRoot)
		if err != nil {
			yield(model.Candidate{}, fmt.Errorf("%w: %w", ErrEnumeration, err))
			return
		}
		if !info.IsDir() {
			yield(model.Candidate{}, fmt.Errorf("%w: %s is not a directory", ErrEnumeration, root))
			return
		}

		stopped := false
		err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == walkRoot {
					return err
				}
				w.logger.Debug("skipping entry", "path", path, "err", err)
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !model.MatchesExtension(d.Name(), w.spec.Extension) {
				return nil
			}

			fi, err := d.Info()
			if err != nil {
				w.logger.Debug("skipping entry", "path", path, "err", err)
				return nil
			}
			rel, err := model.RelativePath(walkRoot, path)
			if err != nil {
				w.logger.Debug("skipping entry", "path", path, "err", err)
				return nil
			}

			c := model.Candidate{
				FullPath:     filepath.Join(root, filepath.FromSlash(rel)),
				RelativePath: rel,
				Size:         fi.Size(),
				ModifiedAt:   fi.ModTime(),
			}
			if !yield(c, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if err == nil || stopped {
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			yield(model.Candidate{}, fmt.Errorf("walk %s: %w", root, err))
			return
		}
		yield(model.Candidate{}, fmt.Errorf("%w: walk %s: %w", ErrEnumeration, root, err))
	}
}
