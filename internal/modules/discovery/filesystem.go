package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/temirov/gahcheck/internal/modules"
)

const (
	// ModuleMarkerFileName declares one or more non-host modules rooted in its directory.
	ModuleMarkerFileName = "gah-module.json"
	// HostMarkerFileName declares the host module rooted in its directory.
	HostMarkerFileName = "gah-host.json"

	gitMetadataDirectoryNameConstant   = ".git"
	defaultDependencyDirectoryConstant = "node_modules"
	modulesPathConstant                = "modules"
	moduleNamePathConstant             = "name"
	invalidMarkerTemplateConstant      = "invalid module marker %s: %s"
	invalidJSONReasonConstant          = "content is not valid JSON"
	missingModulesReasonConstant       = "modules must be an array"
	missingModuleNameReasonConstant    = "module entry %d has no name"
	markerReadErrorTemplateConstant    = "unable to read module marker %s: %w"
	basePathErrorTemplateConstant      = "unable to resolve module directory %s: %w"
	rootWalkErrorTemplateConstant      = "unable to read workspace root %s: %w"
)

// InvalidMarkerError reports a marker file whose content cannot describe modules.
type InvalidMarkerError struct {
	MarkerPath string
	Reason     string
}

// Error describes the invalid marker.
func (markerError InvalidMarkerError) Error() string {
	return fmt.Sprintf(invalidMarkerTemplateConstant, markerError.MarkerPath, markerError.Reason)
}

// FilesystemModuleDiscoverer locates module marker files on disk.
type FilesystemModuleDiscoverer struct {
	dependencyDirectoryName string
}

// NewFilesystemModuleDiscoverer constructs a discoverer that never descends into the named dependency directory.
func NewFilesystemModuleDiscoverer(dependencyDirectoryName string) *FilesystemModuleDiscoverer {
	trimmedName := strings.TrimSpace(dependencyDirectoryName)
	if len(trimmedName) == 0 {
		trimmedName = defaultDependencyDirectoryConstant
	}
	return &FilesystemModuleDiscoverer{dependencyDirectoryName: trimmedName}
}

// DiscoverModules walks the roots and returns the declared modules ordered by marker path, then declaration order.
// An unreadable root is an error; unreadable directories below a root are skipped.
func (discoverer *FilesystemModuleDiscoverer) DiscoverModules(roots []string) ([]modules.Descriptor, error) {
	markerPaths, walkError := discoverer.findMarkers(roots)
	if walkError != nil {
		return nil, walkError
	}

	descriptors := make([]modules.Descriptor, 0, len(markerPaths))
	for _, markerPath := range markerPaths {
		markerDescriptors, markerError := readMarker(markerPath)
		if markerError != nil {
			return nil, markerError
		}
		descriptors = append(descriptors, markerDescriptors...)
	}
	return descriptors, nil
}

func (discoverer *FilesystemModuleDiscoverer) findMarkers(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var markerPaths []string

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				if path == root {
					return fmt.Errorf(rootWalkErrorTemplateConstant, root, walkError)
				}
				return nil
			}

			if directoryEntry.IsDir() {
				switch directoryEntry.Name() {
				case gitMetadataDirectoryNameConstant, discoverer.dependencyDirectoryName:
					return fs.SkipDir
				}
				return nil
			}

			if directoryEntry.Name() != ModuleMarkerFileName && directoryEntry.Name() != HostMarkerFileName {
				return nil
			}

			absolutePath, absoluteError := filepath.Abs(path)
			if absoluteError != nil {
				return fmt.Errorf(basePathErrorTemplateConstant, path, absoluteError)
			}
			if _, alreadySeen := seen[absolutePath]; alreadySeen {
				return nil
			}
			seen[absolutePath] = struct{}{}
			markerPaths = append(markerPaths, absolutePath)
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(markerPaths)
	return markerPaths, nil
}

func readMarker(markerPath string) ([]modules.Descriptor, error) {
	content, readError := os.ReadFile(markerPath)
	if readError != nil {
		return nil, fmt.Errorf(markerReadErrorTemplateConstant, markerPath, readError)
	}
	if !gjson.ValidBytes(content) {
		return nil, InvalidMarkerError{MarkerPath: markerPath, Reason: invalidJSONReasonConstant}
	}

	basePath := filepath.Clean(filepath.Dir(markerPath))
	if filepath.Base(markerPath) == HostMarkerFileName {
		hostName := strings.TrimSpace(gjson.GetBytes(content, moduleNamePathConstant).String())
		if len(hostName) == 0 {
			hostName = filepath.Base(basePath)
		}
		return []modules.Descriptor{{ModuleName: hostName, BasePath: basePath, IsHost: true}}, nil
	}

	moduleEntries := gjson.GetBytes(content, modulesPathConstant)
	if !moduleEntries.IsArray() {
		return nil, InvalidMarkerError{MarkerPath: markerPath, Reason: missingModulesReasonConstant}
	}

	var descriptors []modules.Descriptor
	for entryIndex, moduleEntry := range moduleEntries.Array() {
		moduleName := strings.TrimSpace(moduleEntry.Get(moduleNamePathConstant).String())
		if len(moduleName) == 0 {
			return nil, InvalidMarkerError{MarkerPath: markerPath, Reason: fmt.Sprintf(missingModuleNameReasonConstant, entryIndex)}
		}
		descriptors = append(descriptors, modules.Descriptor{ModuleName: moduleName, BasePath: basePath})
	}
	return descriptors, nil
}
