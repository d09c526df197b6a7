// Package pathutils normalizes workspace root paths supplied by flags and configuration.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RootSanitizer trims, expands, and absolutizes workspace roots, dropping duplicates and nested roots.
type RootSanitizer struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewRootSanitizer constructs a RootSanitizer using the operating system home directory lookup.
func NewRootSanitizer() *RootSanitizer {
	return NewRootSanitizerWithProvider(os.UserHomeDir)
}

// NewRootSanitizerWithProvider constructs a RootSanitizer with a custom home directory provider.
func NewRootSanitizerWithProvider(provider HomeDirectoryProvider) *RootSanitizer {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RootSanitizer{homeDirectoryProvider: provider}
}

// Sanitize returns cleaned absolute roots in input order, or nil when nothing usable remains.
func (sanitizer *RootSanitizer) Sanitize(candidateRoots []string) []string {
	if sanitizer == nil {
		sanitizer = NewRootSanitizer()
	}

	absoluteRoots := make([]string, 0, len(candidateRoots))
	for _, candidateRoot := range candidateRoots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) == 0 {
			continue
		}

		absoluteRoot, absoluteError := filepath.Abs(sanitizer.expandHome(trimmedRoot))
		if absoluteError != nil {
			continue
		}
		absoluteRoots = append(absoluteRoots, filepath.Clean(absoluteRoot))
	}

	sanitizedRoots := make([]string, 0, len(absoluteRoots))
	for candidateIndex, candidateRoot := range absoluteRoots {
		if coveredByOtherRoot(candidateIndex, candidateRoot, absoluteRoots) {
			continue
		}
		sanitizedRoots = append(sanitizedRoots, candidateRoot)
	}

	if len(sanitizedRoots) == 0 {
		return nil
	}
	return sanitizedRoots
}

func (sanitizer *RootSanitizer) expandHome(candidatePath string) string {
	if candidatePath != tildeSymbolConstant && !strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant) && !strings.HasPrefix(candidatePath, tildeSymbolConstant+string(os.PathSeparator)) {
		return candidatePath
	}

	homeDirectory, homeDirectoryError := sanitizer.homeDirectoryProvider()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildeSymbolConstant {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, candidatePath[len(tildeSymbolConstant)+1:])
}

// coveredByOtherRoot reports whether an earlier identical root or any strict ancestor root exists.
func coveredByOtherRoot(candidateIndex int, candidateRoot string, roots []string) bool {
	for otherIndex, otherRoot := range roots {
		if otherIndex == candidateIndex {
			continue
		}
		if otherRoot == candidateRoot {
			if otherIndex < candidateIndex {
				return true
			}
			continue
		}
		if isNestedPath(otherRoot, candidateRoot) {
			return true
		}
	}
	return false
}

func isNestedPath(parentPath string, candidatePath string) bool {
	relativePath, relativeError := filepath.Rel(parentPath, candidatePath)
	if relativeError != nil {
		return false
	}
	return relativePath != "." && relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(os.PathSeparator))
}
