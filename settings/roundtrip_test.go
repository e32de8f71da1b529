package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// observableState reduces a Resolution to its observable state: the non-hidden profile set and all effective values.
func observableState(res *Resolution) map[string]map[string]any {
	state := make(map[string]map[string]any)
	for _, p := range res.ActiveProfiles {
		state[p.GUID.String()] = p.Effective
	}
	return state
}

func roundtripConfig(t *testing.T, dir string, gen Generator) Config {
	t.Helper()
	cfg := Config{
		DefaultsPath: baseDefaults(t, dir),
		UserPath:     filepath.Join(dir, "settings.json"),
		StatePath:    filepath.Join(dir, "state.json"),
	}
	if gen != nil {
		cfg.Generators = []Generator{gen}
	}
	return cfg
}

// TestResolutionIsIdempotent covers the invariant
// resolve(serialize(resolve(S))) == resolve(S): persisting a resolved
// state and resolving again must not change any observable value.
func TestResolutionIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	gen := namedTestGenerator("Test.Generator", "Generated Shell")
	cfg := roundtripConfig(t, dir, gen)
	writeFile(t, cfg.UserPath, `{
		"profiles": {
			"defaults": {"fontFace": "Cascadia Mono"},
			"list": [
				{"guid": "{11111111-1111-1111-1111-111111111111}", "name": "A", "cursorShape": "vintage"}
			]
		}
	}`)

	first, err := LoadAll(cfg)
	if err != nil {
		t.Fatalf("first LoadAll: %s", err)
	}

	if err := NewPersister(cfg.UserPath).Save(first.Globals, first.ProfileDefaults, first.AllProfiles, time.Now()); err != nil {
		t.Fatalf("Save: %s", err)
	}

	second, err := LoadAll(cfg)
	if err != nil {
		t.Fatalf("second LoadAll: %s", err)
	}

	if !reflect.DeepEqual(observableState(first), observableState(second)) {
		t.Errorf("resolution is not idempotent:\nfirst:  %+v\nsecond: %+v",
			observableState(first), observableState(second))
	}
}

// TestResolutionDeterministicWithoutUserFile covers the invariant
// that deleting the user file and re-running reproduces identical
// observable state when generator outputs are unchanged, the payoff of
// v5 guid synthesis.
func TestResolutionDeterministicWithoutUserFile(t *testing.T) {
	gen := namedTestGenerator("Test.Generator", "Bash", "Zsh")

	dirA := t.TempDir()
	cfgA := roundtripConfig(t, dirA, gen)
	resA, err := LoadAll(cfgA)
	if err != nil {
		t.Fatalf("run A: %s", err)
	}

	// Fresh directory: no user file, no sidecar state.
	dirB := t.TempDir()
	cfgB := roundtripConfig(t, dirB, gen)
	resB, err := LoadAll(cfgB)
	if err != nil {
		t.Fatalf("run B: %s", err)
	}

	if !reflect.DeepEqual(observableState(resA), observableState(resB)) {
		t.Errorf("independent runs diverged:\nA: %+v\nB: %+v",
			observableState(resA), observableState(resB))
	}
}

// TestResolutionUniversalInvariants checks the remaining universal
// invariants over a load that exercises every source: non-zero guids,
// acyclic parent closures, and no hidden profile in the active list.
func TestResolutionUniversalInvariants(t *testing.T) {
	dir := t.TempDir()
	gen := namedTestGenerator("Test.Generator", "Generated Shell")
	cfg := roundtripConfig(t, dir, gen)
	writeFile(t, cfg.UserPath, `{
		"profiles": {
			"list": [
				{"guid": "{11111111-1111-1111-1111-111111111111}", "name": "A"},
				{"name": "B", "hidden": true}
			]
		}
	}`)
	fragRoot := filepath.Join(dir, "fragments")
	if err := os.MkdirAll(filepath.Join(fragRoot, "Some.Publisher"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(fragRoot, "Some.Publisher", "f.json"), `{
		"profiles": [
			{"updates": "{11111111-1111-1111-1111-111111111111}", "fontFace": "Cascadia Code"},
			{"name": "Fragment Shell"}
		]
	}`)
	cfg.FragmentRoots = []string{fragRoot}

	res, err := LoadAll(cfg)
	if err != nil {
		t.Fatalf("LoadAll: %s", err)
	}

	for _, p := range res.AllProfiles {
		if p.GUID.IsZero() {
			t.Errorf("profile %q has a zero guid after resolution", p.Name)
		}
		if hasCycle(p) {
			t.Errorf("profile %q has a cycle in its parent closure", p.Name)
		}
	}
	for _, p := range res.ActiveProfiles {
		if p.Hidden || p.Deleted {
			t.Errorf("active profile %q is hidden or deleted", p.Name)
		}
	}
}

func hasCycle(p *Profile) bool {
	onPath := make(map[*Profile]bool)
	var walk func(cur *Profile) bool
	walk = func(cur *Profile) bool {
		if onPath[cur] {
			return true
		}
		onPath[cur] = true
		defer delete(onPath, cur)
		for _, parent := range cur.Parents {
			if walk(parent) {
				return true
			}
		}
		return false
	}
	return walk(p)
}
