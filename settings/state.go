package settings

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/tevino/abool"

	"github.com/plpmyanmar/terminal/base/log"
	"github.com/plpmyanmar/terminal/base/utils/renameio"
)

// StatePersistence tracks the GUIDs of every generated profile ever
// emitted on this installation, so a generator's output that
// disappears from the user's file can be re-hidden instead of silently
// resurrected on the next run.
type StatePersistence struct {
	path              string
	generatedProfiles map[GUID]struct{}
	dirty             *abool.AtomicBool
}

// stateFile is the on-disk wire shape of the sidecar state file.
type stateFile struct {
	GeneratedProfiles []GUID `json:"generatedProfiles"`
}

// LoadStatePersistence reads the sidecar state file at path. A missing
// file is not an error: it means a fresh installation with no
// generated-profile history yet.
func LoadStatePersistence(path string) (*StatePersistence, error) {
	sp := &StatePersistence{
		path:              path,
		generatedProfiles: make(map[GUID]struct{}),
		dirty:             abool.New(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sp, nil
		}
		return nil, err
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		log.Warningf("state: sidecar file %s is corrupt, starting fresh: %s", path, err)
		return sp, nil
	}
	for _, g := range sf.GeneratedProfiles {
		sp.generatedProfiles[g] = struct{}{}
	}
	return sp, nil
}

// Seen reports whether guid has previously been recorded as emitted.
func (sp *StatePersistence) Seen(guid GUID) bool {
	_, ok := sp.generatedProfiles[guid]
	return ok
}

// Record adds guid to the seen set if not already present, marking the
// state dirty so it gets re-persisted at the end of resolution. Only the
// dirty flag is atomic; the seen set is a plain map, so Record is not
// safe for concurrent use and is called from the resolver's own
// goroutine only.
func (sp *StatePersistence) Record(guid GUID) {
	if _, exists := sp.generatedProfiles[guid]; exists {
		return
	}
	sp.generatedProfiles[guid] = struct{}{}
	sp.dirty.Set()
}

// Dirty reports whether any new GUID was recorded since load.
func (sp *StatePersistence) Dirty() bool {
	return sp.dirty.IsSet()
}

// ReconcileGenerated applies the re-hide-after-delete rule for a
// single generated (not fragment) candidate profile g against its
// reproduction repro already living in the user catalog: if g's GUID
// was seen before and is absent from the on-disk user declarations,
// repro is hidden and marked deleted.
func (sp *StatePersistence) ReconcileGenerated(g *Profile, repro *Profile, presentInUserFile bool) {
	if sp.Seen(g.GUID) {
		if !presentInUserFile {
			repro.Hidden = true
			repro.Deleted = true
		}
		return
	}
	sp.Record(g.GUID)
}

// Save persists the generated-profile GUID set to the sidecar file if
// and only if Dirty reports true, via the same atomic write-then-rename
// pattern the Persister uses for the main settings file.
func (sp *StatePersistence) Save() error {
	if !sp.Dirty() {
		return nil
	}

	sf := stateFile{}
	for g := range sp.generatedProfiles {
		sf.GeneratedProfiles = append(sf.GeneratedProfiles, g)
	}
	sort.Slice(sf.GeneratedProfiles, func(i, j int) bool {
		return sf.GeneratedProfiles[i].String() < sf.GeneratedProfiles[j].String()
	})
	data, err := json.MarshalIndent(sf, "", "    ")
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(sp.path, data, 0o600); err != nil {
		return err
	}
	sp.dirty.UnSet()
	return nil
}
