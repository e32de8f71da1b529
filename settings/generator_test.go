package settings

import (
	"errors"
	"testing"
)

func namedTestGenerator(ns string, names ...string) *TestGenerator {
	return &TestGenerator{
		NamespaceValue: ns,
		Fn: func() ([]*Profile, error) {
			var out []*Profile
			for _, name := range names {
				p := NewProfile(OriginGenerated)
				p.Name = name
				out = append(out, p)
			}
			return out, nil
		},
	}
}

func TestGeneratorRunnerPreservesRegistrationOrder(t *testing.T) {
	runner := NewGeneratorRunner(
		namedTestGenerator("First.Ns", "A", "B"),
		namedTestGenerator("Second.Ns", "C"),
	)

	out := runner.Run(NewGlobalAppSettings())
	if len(out) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(out))
	}
	for i, want := range []string{"A", "B", "C"} {
		if out[i].Name != want {
			t.Errorf("out[%d].Name = %q, want %q", i, out[i].Name, want)
		}
	}
}

func TestGeneratorRunnerTagsAndAssignsIdentity(t *testing.T) {
	runner := NewGeneratorRunner(namedTestGenerator("Test.Ns", "Bash"))
	out := runner.Run(NewGlobalAppSettings())
	if len(out) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(out))
	}
	p := out[0]
	if p.Origin != OriginGenerated {
		t.Errorf("Origin = %s, want %s", p.Origin, OriginGenerated)
	}
	if p.Source != "Test.Ns" {
		t.Errorf("Source = %q, want Test.Ns", p.Source)
	}
	if p.GUID.IsZero() {
		t.Errorf("runner must synthesize a guid for guid-less generator output")
	}
	if !p.GUID.Equal(NewV5GUID(NewV5GUID(UserNamespace, "Test.Ns"), "Bash")) {
		t.Errorf("synthesized guid must be the deterministic v5 form")
	}
}

func TestGeneratorRunnerSkipsDisabledNamespace(t *testing.T) {
	globals := NewGlobalAppSettings()
	globals.DisabledProfileSources["Disabled.Ns"] = struct{}{}

	runner := NewGeneratorRunner(
		namedTestGenerator("Disabled.Ns", "Hidden"),
		namedTestGenerator("Enabled.Ns", "Shown"),
	)
	out := runner.Run(globals)
	if len(out) != 1 || out[0].Name != "Shown" {
		t.Errorf("disabled namespace must be skipped entirely, got %+v", out)
	}
}

func TestGeneratorRunnerRecoversFaultyGenerators(t *testing.T) {
	panicking := &TestGenerator{
		NamespaceValue: "Panics.Ns",
		Fn:             func() ([]*Profile, error) { panic("boom") },
	}
	failing := &TestGenerator{
		NamespaceValue: "Fails.Ns",
		Fn:             func() ([]*Profile, error) { return nil, errors.New("no shells found") },
	}

	runner := NewGeneratorRunner(panicking, failing, namedTestGenerator("Works.Ns", "Survivor"))
	out := runner.Run(NewGlobalAppSettings())
	if len(out) != 1 || out[0].Name != "Survivor" {
		t.Errorf("a faulty generator must never abort its siblings, got %+v", out)
	}
}

func TestConcreteGeneratorNamespaces(t *testing.T) {
	cases := []struct {
		gen  Generator
		want string
	}{
		{&PowershellCoreGenerator{}, "Windows.Terminal.PowershellCore"},
		{&WslDistroGenerator{}, "Windows.Terminal.Wsl"},
		{&AzureCloudShellGenerator{}, "Windows.Terminal.Azure"},
	}
	for _, tc := range cases {
		if got := tc.gen.Namespace(); got != tc.want {
			t.Errorf("Namespace() = %q, want %q", got, tc.want)
		}
	}
}
