package flags

import "github.com/spf13/cobra"

const (
	// RootFlagName is the repeatable flag selecting workspace roots to scan for modules.
	RootFlagName = "root"
	// RootFlagUsage describes the root flag.
	RootFlagUsage = "Workspace roots to scan for modules (repeatable)"
)

// RootFlagValues stores parsed workspace roots.
type RootFlagValues struct {
	Roots []string
}

// BindRootFlags attaches the persistent root flag to the command and returns the bound values.
// The flag is reused when an ancestor already declares it.
func BindRootFlags(command *cobra.Command, defaults RootFlagValues) *RootFlagValues {
	values := RootFlagValues{Roots: append([]string{}, defaults.Roots...)}
	if command == nil {
		return &values
	}

	persistentFlagSet := command.PersistentFlags()
	if persistentFlagSet.Lookup(RootFlagName) == nil {
		persistentFlagSet.StringArrayVar(&values.Roots, RootFlagName, values.Roots, RootFlagUsage)
	}
	return &values
}
