package settings

import (
	"github.com/plpmyanmar/terminal/base/log"
)

// Layerer is the core merge engine: it folds generator and
// fragment candidates into the user's catalog via one of three
// dispositions (update overlay, match-and-layer, or
// reproduce-and-publish), then wires the profileDefaults/globals parent
// chains once all candidates have been folded in.
type Layerer struct{}

// NewLayerer returns a ready-to-use merge engine. It carries no state
// of its own; every call is independent.
func NewLayerer() *Layerer {
	return &Layerer{}
}

// Layer folds each candidate (from a GeneratorRunner or FragmentLoader)
// into user in candidate order.
func (l *Layerer) Layer(user *ParsedSettings, candidates []*Profile) {
	for _, c := range candidates {
		l.layerOne(user, c)
	}
}

func (l *Layerer) layerOne(user *ParsedSettings, c *Profile) {
	// 1. Update overlay: c.Updates names an existing user profile. c is
	// prepended as a parent so its values outrank the profile's existing
	// parents but still defer to whatever the user profile itself
	// declares; AttachDefaults later puts profileDefaults in front of
	// it, so profile-defaults values outrank the overlay. c never
	// becomes separately visible. An overlay whose target does not
	// exist is discarded: it describes a profile this installation
	// doesn't have, so there is nothing to attach it to.
	if c.Updates != nil {
		existing, ok := user.ByGUID(*c.Updates)
		if !ok {
			log.Debugf("layerer: dropping overlay from %s: target %s not present", c.Source, c.Updates)
			return
		}
		existing.prependParent(c)
		return
	}

	// 2. Match-and-layer: a candidate whose GUID already exists in the
	// user catalog is appended as a fallback parent. User values still
	// win; c never becomes separately visible.
	if existing, ok := user.ByGUID(c.GUID); ok {
		existing.addParent(c)
		return
	}

	// 3. Reproduce-and-publish: c is new. Publish a reproduction whose
	// sole parent is c, so later user edits layer onto the
	// reproduction rather than mutating the shared, immutable
	// candidate record. The reproduction declares nothing of its own:
	// the candidate's values flow in through inheritance only, so an
	// updated generator or fragment shows through on the next load
	// instead of being masked by a stale local copy.
	repro := c.reproduce()
	if err := user.Append(repro); err != nil {
		log.Warningf("layerer: %s", err)
	}
}

// AttachDefaults wires the two remaining parent-chain hops: every
// user-visible profile gets user's own profileDefaults record prepended
// as its front-most parent, and then
// the cross-document chain is closed by making defaults.globals the
// parent of user.Globals and defaults.ProfileDefaults the parent of
// user.ProfileDefaults.
func (l *Layerer) AttachDefaults(user *ParsedSettings, defaults *ParsedSettings) {
	for _, p := range user.Profiles {
		p.Parents = append([]*Profile{user.ProfileDefaults}, p.Parents...)
	}
	user.Globals.parent = defaults.Globals
	user.ProfileDefaults.Parents = []*Profile{defaults.ProfileDefaults}
}
