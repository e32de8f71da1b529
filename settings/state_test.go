package settings

import (
	"path/filepath"
	"testing"
)

func TestStatePersistenceFreshInstallation(t *testing.T) {
	sp, err := LoadStatePersistence(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("a missing sidecar file must not be an error: %s", err)
	}
	if sp.Dirty() {
		t.Errorf("fresh state must not start dirty")
	}
	if sp.Seen(MustParseGUID("{11111111-1111-1111-1111-111111111111}")) {
		t.Errorf("fresh state must not report any guid as seen")
	}
}

func TestStatePersistenceRecordSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	g := MustParseGUID("{11111111-1111-1111-1111-111111111111}")

	sp, err := LoadStatePersistence(path)
	if err != nil {
		t.Fatal(err)
	}
	sp.Record(g)
	if !sp.Dirty() {
		t.Fatalf("recording a new guid must mark the state dirty")
	}
	if err := sp.Save(); err != nil {
		t.Fatalf("Save: %s", err)
	}
	if sp.Dirty() {
		t.Errorf("a successful save must clear the dirty bit")
	}

	reloaded, err := LoadStatePersistence(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Seen(g) {
		t.Errorf("saved guid must survive a reload")
	}
	// Re-recording a known guid is a no-op.
	reloaded.Record(g)
	if reloaded.Dirty() {
		t.Errorf("recording an already-known guid must not dirty the state")
	}
}

func TestStatePersistenceCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	writeFile(t, path, `{broken`)

	sp, err := LoadStatePersistence(path)
	if err != nil {
		t.Fatalf("a corrupt sidecar must start fresh, not fail: %s", err)
	}
	if sp.Dirty() {
		t.Errorf("fresh-after-corrupt state must not start dirty")
	}
}

func TestStatePersistenceReconcileGenerated(t *testing.T) {
	sp, err := LoadStatePersistence(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	g := NewProfile(OriginGenerated)
	g.GUID = MustParseGUID("{11111111-1111-1111-1111-111111111111}")
	repro := g.reproduce()

	// First sighting: recorded, shown.
	sp.ReconcileGenerated(g, repro, false)
	if repro.Hidden || repro.Deleted {
		t.Errorf("a never-seen generated profile must stay visible")
	}
	if !sp.Seen(g.GUID) {
		t.Errorf("first sighting must be recorded")
	}

	// Seen before and absent from the user file: re-hidden.
	repro2 := g.reproduce()
	sp.ReconcileGenerated(g, repro2, false)
	if !repro2.Hidden || !repro2.Deleted {
		t.Errorf("a previously-seen profile missing from the user file must be hidden+deleted")
	}

	// Seen before but still declared by the user: left alone.
	repro3 := g.reproduce()
	sp.ReconcileGenerated(g, repro3, true)
	if repro3.Hidden || repro3.Deleted {
		t.Errorf("a profile the user still declares must not be touched")
	}
}

func TestStatePersistenceSaveIsNoOpWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-created.json")
	sp, err := LoadStatePersistence(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sp.Save(); err != nil {
		t.Fatalf("Save on clean state must be a no-op: %s", err)
	}
	if fileExists(path) {
		t.Errorf("clean state must not create a sidecar file")
	}
}
