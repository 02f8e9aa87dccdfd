// Package fonts makes font families available to the renderer before a text
// layer using them is drawn.
package fonts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ResolverFunc fetches one font family from wherever fonts live (bundled
// files, a CDN, an OS lookup). It is only called the first time a family is
// requested.
type ResolverFunc func(ctx context.Context, family string) error

// fontExtensions are the file types a bundled font directory may contain.
var fontExtensions = []string{".ttf", ".otf", ".woff2"}

// DirResolver resolves families against a directory of bundled font files,
// expecting one file per family named after it ("Arial.ttf"). The family name
// is flattened to a bare file name so it cannot escape the directory.
func DirResolver(dir string) ResolverFunc {
	return func(_ context.Context, family string) error {
		name := filepath.Base(strings.ReplaceAll(family, "..", ""))
		for _, ext := range fontExtensions {
			if _, err := os.Stat(filepath.Join(dir, name+ext)); err == nil {
				return nil
			}
		}
		return fmt.Errorf("no font file for family %q in %s", family, dir)
	}
}

// Loader memoizes which font families have already been resolved. Repeated
// Ensure calls for the same family are no-ops after the first. Construct a
// fresh Loader to reset the cache; there is no hidden package-level state.
type Loader struct {
	mu      sync.Mutex
	loaded  map[string]struct{}
	resolve ResolverFunc
}

// NewLoader creates an empty loader. A nil resolver means families are
// considered available without any fetch, which is what tests and
// server-side flows that never rasterize text want.
func NewLoader(resolve ResolverFunc) *Loader {
	return &Loader{
		loaded:  make(map[string]struct{}),
		resolve: resolve,
	}
}

// Ensure makes the family available, fetching it on first request. A failed
// fetch is not memoized, so the next Ensure retries.
func (l *Loader) Ensure(ctx context.Context, family string) error {
	if family == "" {
		return fmt.Errorf("font family is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.loaded[family]; ok {
		return nil
	}
	if l.resolve != nil {
		if err := l.resolve(ctx, family); err != nil {
			logrus.WithFields(logrus.Fields{
				"family": family,
				"error":  err,
			}).Warn("Failed to load font family")
			return fmt.Errorf("load font %q: %w", family, err)
		}
	}

	l.loaded[family] = struct{}{}
	logrus.WithField("family", family).Debug("Font family loaded")
	return nil
}

// Loaded reports whether the family has been resolved already.
func (l *Loader) Loaded(family string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[family]
	return ok
}
