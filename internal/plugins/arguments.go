package plugins

import "strings"

// CIArgument is the command argument that enables the continuous-integration workaround.
const CIArgument = "ci"

// HasCIArgument reports whether the literal ci token is among the arguments.
func HasCIArgument(arguments []string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == CIArgument {
			return true
		}
	}
	return false
}
