package settings

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/plpmyanmar/terminal/base/log"
)

// Generator is the contract an automatic profile source satisfies:
// a stable Namespace used both for the disabled-sources ignore-list and
// as profile.Source, and a Generate call producing fully-formed
// profiles.
type Generator interface {
	Namespace() string
	Generate() ([]*Profile, error)
}

// The concrete generator variants form a closed sum type rather than an
// open plugin interface: real OS discovery logic is
// out of scope, so each stub returns no profiles. Only the contract and
// the runner's scheduling/recovery behavior are under test here.

// PowershellCoreGenerator discovers an installed PowerShell Core
// distribution. Real discovery is out of scope; this is the contract
// stub.
type PowershellCoreGenerator struct{}

func (g *PowershellCoreGenerator) Namespace() string { return "Windows.Terminal.PowershellCore" }

func (g *PowershellCoreGenerator) Generate() ([]*Profile, error) { return nil, nil }

// WslDistroGenerator discovers installed WSL distributions.
type WslDistroGenerator struct{}

func (g *WslDistroGenerator) Namespace() string { return "Windows.Terminal.Wsl" }

func (g *WslDistroGenerator) Generate() ([]*Profile, error) { return nil, nil }

// AzureCloudShellGenerator produces the Azure Cloud Shell profile.
type AzureCloudShellGenerator struct{}

func (g *AzureCloudShellGenerator) Namespace() string { return "Windows.Terminal.Azure" }

func (g *AzureCloudShellGenerator) Generate() ([]*Profile, error) { return nil, nil }

// TestGenerator wraps an arbitrary closure, letting unit tests exercise
// GeneratorRunner's scheduling, disabled-source skip, and panic-recovery
// behavior without real OS discovery. Profiles it emits may omit a
// GUID; the runner synthesizes one exactly as it would for a
// hand-written user profile.
type TestGenerator struct {
	NamespaceValue string
	Fn             func() ([]*Profile, error)
}

func (g *TestGenerator) Namespace() string { return g.NamespaceValue }

func (g *TestGenerator) Generate() ([]*Profile, error) {
	if g.Fn == nil {
		return nil, nil
	}
	return g.Fn()
}

// GeneratorRunner invokes a fixed, ordered set of generators and
// accumulates their outputs into one ordered list.
type GeneratorRunner struct {
	generators []Generator
	identity   *IdentityAssigner
}

// NewGeneratorRunner returns a runner over generators, invoked in the
// given order.
func NewGeneratorRunner(generators ...Generator) *GeneratorRunner {
	return &GeneratorRunner{
		generators: generators,
		identity:   NewIdentityAssigner(),
	}
}

// Run executes every registered generator not named in
// globals.disabledProfileSources, tagging each emitted profile with
// Origin=Generated and Source=namespace. A generator panic or error is
// recovered, logged, and discarded, never propagated to the caller,
// and all such failures across the run are coalesced into a single
// combined diagnostic so a flapping generator does not flood the log.
func (r *GeneratorRunner) Run(globals *GlobalAppSettings) []*Profile {
	var out []*Profile
	var failures *multierror.Error

	for _, g := range r.generators {
		ns := g.Namespace()
		if globals.IsSourceDisabled(ns) {
			continue
		}
		profiles, err := r.runOne(g)
		if err != nil {
			failures = multierror.Append(failures, fmt.Errorf("generator %s: %w", ns, err))
			continue
		}
		for _, p := range profiles {
			p.Origin = OriginGenerated
			p.Source = ns
			r.identity.Assign(p)
		}
		out = append(out, profiles...)
	}

	if failures != nil {
		log.Warningf("generator runner: %s", failures)
	}
	return out
}

// runOne invokes a single generator with panic recovery, so a faulty
// generator can never abort loading.
func (r *GeneratorRunner) runOne(g Generator) (profiles []*Profile, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return g.Generate()
}
