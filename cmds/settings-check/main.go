// Command settings-check runs a full settings resolution against the
// given files and prints the outcome: the active profiles, the default
// profile, and any warnings. Useful for inspecting what a user's
// settings.json actually resolves to without launching the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plpmyanmar/terminal/base/log"
	"github.com/plpmyanmar/terminal/settings"
)

var (
	defaultsPath = flag.String("defaults", "defaults.json", "path to the built-in defaults file")
	userPath     = flag.String("settings", "settings.json", "path to the user settings file")
	statePath    = flag.String("state", "state.json", "path to the generated-profile sidecar state file")
	fragmentRoot = flag.String("fragments", "", "optional fragment root directory to scan")
	verbose      = flag.Bool("v", false, "print effective values for every active profile")
)

func main() {
	flag.Parse()

	cfg := settings.Config{
		DefaultsPath: *defaultsPath,
		UserPath:     *userPath,
		StatePath:    *statePath,
		Generators: []settings.Generator{
			&settings.PowershellCoreGenerator{},
			&settings.WslDistroGenerator{},
			&settings.AzureCloudShellGenerator{},
		},
	}
	if *fragmentRoot != "" {
		cfg.FragmentRoots = []string{*fragmentRoot}
	}

	res, err := settings.LoadAll(cfg)
	if err != nil {
		log.Criticalf("settings-check: resolution failed: %s", err)
		os.Exit(1)
	}

	fmt.Printf("resolved %d profiles (%d active), default profile %s\n",
		len(res.AllProfiles), len(res.ActiveProfiles), res.Globals.DefaultProfile)

	for _, p := range res.ActiveProfiles {
		fmt.Printf("  %s  %s", p.GUID, p.Name)
		if p.Source != "" {
			fmt.Printf("  [%s]", p.Source)
		}
		fmt.Println()
		if *verbose {
			for key, val := range p.Effective {
				fmt.Printf("      %s = %v\n", key, val)
			}
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Printf("%d warnings:\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}
