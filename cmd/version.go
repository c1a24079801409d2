package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "parabolawhat", resolveVersion())
	},
}

// resolveVersion prefers the ldflags value, then the module version
// recorded by "go install". Valid semver is printed in canonical form.
func resolveVersion() string {
	v := version
	if v == "(devel)" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			v = info.Main.Version
		}
	}
	return canonicalVersion(v)
}

func canonicalVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "(devel)"
	}
	sv := v
	if sv[0] != 'v' {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return v
	}
	return semver.Canonical(sv)
}
