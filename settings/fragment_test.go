package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFragment(t *testing.T, root, publisher, file, content string) {
	t.Helper()
	dir := filepath.Join(root, publisher)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, file), content)
}

func neverDisabled(string) bool { return false }

func TestFragmentLoaderTagsSourceAndOrigin(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "Some.Publisher", "extra.json", `{
		"profiles": [{"name": "Extra Shell"}]
	}`)

	profiles, err := NewFragmentLoader(root).Load(context.Background(), NewGlobalAppSettings(), neverDisabled)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].Source != "Some.Publisher" {
		t.Errorf("Source = %q, want the publisher namespace", profiles[0].Source)
	}
	if profiles[0].Origin != OriginFragment {
		t.Errorf("Origin = %s, want %s", profiles[0].Origin, OriginFragment)
	}
}

func TestFragmentLoaderSkipsDisabledPublisher(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "Disabled.Publisher", "a.json", `{"profiles": [{"name": "A"}]}`)
	writeFragment(t, root, "Enabled.Publisher", "b.json", `{"profiles": [{"name": "B"}]}`)

	profiles, err := NewFragmentLoader(root).Load(context.Background(), NewGlobalAppSettings(), func(ns string) bool {
		return ns == "Disabled.Publisher"
	})
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "B" {
		t.Errorf("disabled publisher must contribute nothing, got %+v", profiles)
	}
}

func TestFragmentLoaderSkipsBrokenFilesNotSiblings(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "Some.Publisher", "broken.json", `{not json`)
	writeFragment(t, root, "Some.Publisher", "good.json", `{"profiles": [{"name": "Good"}]}`)
	writeFragment(t, root, "Some.Publisher", "notes.txt", `ignored`)

	profiles, err := NewFragmentLoader(root).Load(context.Background(), NewGlobalAppSettings(), neverDisabled)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Good" {
		t.Errorf("one broken fragment must not fail its siblings, got %+v", profiles)
	}
}

func TestFragmentLoaderMergesColorSchemes(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "Some.Publisher", "scheme.json", `{
		"profiles": [{"name": "A"}],
		"schemes": [{"name": "FragScheme", "foreground": "#fff", "background": "#000"}]
	}`)

	globals := NewGlobalAppSettings()
	globals.ColorSchemes["Existing"] = ColorScheme{Name: "Existing", Foreground: "#aaa", Background: "#bbb"}

	if _, err := NewFragmentLoader(root).Load(context.Background(), globals, neverDisabled); err != nil {
		t.Fatalf("Load: %s", err)
	}
	if _, ok := globals.ColorSchemes["FragScheme"]; !ok {
		t.Errorf("fragment scheme should be merged into globals")
	}
	if globals.ColorSchemes["Existing"].Foreground != "#aaa" {
		t.Errorf("existing schemes must not be overwritten by fragments")
	}
}

func TestFragmentLoaderDeterministicOrderAcrossRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFragment(t, rootB, "Zeta.Publisher", "z.json", `{"profiles": [{"name": "Z"}]}`)
	writeFragment(t, rootA, "Alpha.Publisher", "a.json", `{"profiles": [{"name": "A"}]}`)

	profiles, err := NewFragmentLoader(rootA, rootB).Load(context.Background(), NewGlobalAppSettings(), neverDisabled)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Source != "Alpha.Publisher" || profiles[1].Source != "Zeta.Publisher" {
		t.Errorf("results must be ordered by namespace, got %q then %q", profiles[0].Source, profiles[1].Source)
	}
}

func TestFragmentLoaderIgnoresMissingRoots(t *testing.T) {
	profiles, err := NewFragmentLoader(filepath.Join(t.TempDir(), "does-not-exist")).Load(context.Background(), NewGlobalAppSettings(), neverDisabled)
	if err != nil {
		t.Fatalf("a missing root must not be an error: %s", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %+v", profiles)
	}
}
