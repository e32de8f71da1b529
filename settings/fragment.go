package settings

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/plpmyanmar/terminal/base/log"
)

// maxConcurrentFragmentDirs bounds the fan-out across publisher
// directories, so a machine with many installed extensions cannot spawn
// an unbounded number of goroutines.
const maxConcurrentFragmentDirs = 8

// FragmentLoader enumerates fragment roots, the per-user and
// machine-wide directories holding one subdirectory per publisher
// namespace, plus an OS app-extension catalog, and parses every ".json"
// file found within as a fragment document.
//
// Real app-extension catalog enumeration is an OS-specific collaborator
// and out of scope; Roots is populated by the caller (resolve.go) with
// whatever plain directories it wants scanned, including a test-only
// fake catalog path.
type FragmentLoader struct {
	Roots []string
	sem   *semaphore.Weighted
}

// NewFragmentLoader returns a loader scanning roots, each expected to
// contain one subdirectory per publisher namespace.
func NewFragmentLoader(roots ...string) *FragmentLoader {
	return &FragmentLoader{
		Roots: roots,
		sem:   semaphore.NewWeighted(maxConcurrentFragmentDirs),
	}
}

type fragmentDir struct {
	namespace string
	path      string
}

// Load scans all roots and returns the fragment-origin profiles found,
// skipping any publisher namespace for which isDisabled reports true.
// Directory and file enumeration fans out across a bounded worker pool;
// an errgroup acts as the synchronous latch, so Load itself is a plain
// blocking call despite the concurrent fan-out inside it. Fragment
// color schemes (but no other fragment globals) are merged into globals
// as they are discovered.
//
// The returned profiles are sorted by source namespace, making
// directory-traversal order deterministic even though the worker pool
// underneath completes out of order.
func (l *FragmentLoader) Load(ctx context.Context, globals *GlobalAppSettings, isDisabled func(namespace string) bool) ([]*Profile, error) {
	dirs, err := l.enumerateDirs(isDisabled)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var profiles []*Profile

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range dirs {
		d := d
		if err := l.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer l.sem.Release(1)
			found := l.loadDir(d, &mu, globals)
			mu.Lock()
			profiles = append(profiles, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Source < profiles[j].Source
	})
	return profiles, nil
}

// enumerateDirs lists every publisher subdirectory across all roots,
// sorted lexically, excluding disabled namespaces up front so a
// disabled publisher's files are never even opened.
func (l *FragmentLoader) enumerateDirs(isDisabled func(namespace string) bool) ([]fragmentDir, error) {
	var dirs []fragmentDir
	for _, root := range l.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			// A single unreadable root is a silent-recovery condition,
			// not fatal: fragments are best-effort contributors.
			log.Warningf("fragment loader: skipping root %s: %s", root, err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			ns := entry.Name()
			if isDisabled(ns) {
				continue
			}
			dirs = append(dirs, fragmentDir{namespace: ns, path: filepath.Join(root, ns)})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].namespace < dirs[j].namespace })
	return dirs, nil
}

// loadDir parses every ".json" file in d's directory into fragment
// profiles. Any per-file error is logged and the file skipped: one
// broken fragment must never fail its siblings.
func (l *FragmentLoader) loadDir(d fragmentDir, mu *sync.Mutex, globals *GlobalAppSettings) []*Profile {
	files, err := os.ReadDir(d.path)
	if err != nil {
		log.Warningf("fragment loader: skipping %s: %s", d.path, err)
		return nil
	}

	var profiles []*Profile
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		full := filepath.Join(d.path, f.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			log.Warningf("fragment loader: reading %s: %s", full, err)
			continue
		}
		parsed, err := ParseSettings(data, OriginFragment)
		if err != nil {
			log.Warningf("fragment loader: parsing %s: %s", full, err)
			continue
		}
		for _, p := range parsed.Profiles {
			p.Source = d.namespace
			profiles = append(profiles, p)
		}

		mu.Lock()
		for name, scheme := range parsed.Globals.ColorSchemes {
			if _, exists := globals.ColorSchemes[name]; !exists {
				globals.ColorSchemes[name] = scheme
			}
		}
		mu.Unlock()
	}
	return profiles
}
