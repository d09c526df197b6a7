package linkage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/gahcheck/internal/modules"
)

const (
	// DefaultDependencyDirectoryName is the package directory linked when none is configured.
	DefaultDependencyDirectoryName = "node_modules"

	fileSystemNotConfiguredMessageConstant   = "linker file system not configured"
	rootResolverNotConfiguredMessageConstant = "linker repository root resolver not configured"
	workaroundErrorTemplateConstant          = "ci workaround: %w"
	replacingDirectoryLogMessageConstant     = "replacing root dependency directory"
	linkedDirectoryLogMessageConstant        = "linked root dependency directory to host module"
	hostAtRootLogMessageConstant             = "host module is the repository root; dependency directory left in place"
	logFieldHostModuleConstant               = "host_module"
	logFieldLinkPathConstant                 = "link_path"
	logFieldTargetPathConstant               = "target_path"
)

// ErrFileSystemNotConfigured indicates the linker was constructed without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// ErrRootResolverNotConfigured indicates the linker was constructed without a root resolver.
var ErrRootResolverNotConfigured = errors.New(rootResolverNotConfiguredMessageConstant)

// PackageImportLinker links the repository root dependency directory to the host module's copy.
type PackageImportLinker struct {
	fileSystem              FileSystem
	rootResolver            RepositoryRootResolver
	logger                  *zap.Logger
	dependencyDirectoryName string
	mutex                   sync.Mutex
}

// LinkerOption customizes a PackageImportLinker.
type LinkerOption func(linker *PackageImportLinker)

// WithDependencyDirectoryName overrides the linked directory name. Blank names are ignored.
func WithDependencyDirectoryName(directoryName string) LinkerOption {
	return func(linker *PackageImportLinker) {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) > 0 {
			linker.dependencyDirectoryName = trimmedName
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) LinkerOption {
	return func(linker *PackageImportLinker) {
		if logger != nil {
			linker.logger = logger
		}
	}
}

// NewPackageImportLinker validates collaborators and constructs a linker.
func NewPackageImportLinker(fileSystem FileSystem, rootResolver RepositoryRootResolver, options ...LinkerOption) (*PackageImportLinker, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if rootResolver == nil {
		return nil, ErrRootResolverNotConfigured
	}

	linker := &PackageImportLinker{
		fileSystem:              fileSystem,
		rootResolver:            rootResolver,
		logger:                  zap.NewNop(),
		dependencyDirectoryName: DefaultDependencyDirectoryName,
	}
	for _, option := range options {
		if option != nil {
			option(linker)
		}
	}
	return linker, nil
}

// Link replaces the root dependency directory with a link to the host module's dependency directory.
// The host is looked up in the full module set; a missing host yields modules.ErrHostModuleNotFound.
// A host located at the repository root already owns the root dependency directory and is left untouched.
func (linker *PackageImportLinker) Link(executionContext context.Context, moduleSet []modules.Descriptor) error {
	linker.mutex.Lock()
	defer linker.mutex.Unlock()

	hostModule, hostError := modules.FindHost(moduleSet)
	if hostError != nil {
		return fmt.Errorf(workaroundErrorTemplateConstant, hostError)
	}

	hostDependencyDirectory := linker.fileSystem.Join(hostModule.BasePath, linker.dependencyDirectoryName)

	rootDirectory, rootError := linker.rootResolver.GetRootDirectory(executionContext, hostModule.BasePath)
	if rootError != nil {
		return fmt.Errorf(workaroundErrorTemplateConstant, rootError)
	}
	rootDependencyDirectory := linker.fileSystem.Join(rootDirectory, linker.dependencyDirectoryName)

	linkFields := []zap.Field{
		zap.String(logFieldHostModuleConstant, hostModule.ModuleName),
		zap.String(logFieldLinkPathConstant, rootDependencyDirectory),
		zap.String(logFieldTargetPathConstant, hostDependencyDirectory),
	}

	if filepath.Clean(rootDependencyDirectory) == filepath.Clean(hostDependencyDirectory) {
		linker.logger.Debug(hostAtRootLogMessageConstant, linkFields...)
		return nil
	}

	exists, existsError := linker.fileSystem.DirectoryExists(executionContext, rootDependencyDirectory)
	if existsError != nil {
		return fmt.Errorf(workaroundErrorTemplateConstant, existsError)
	}
	if exists {
		linker.logger.Debug(replacingDirectoryLogMessageConstant, linkFields...)
		if deleteError := linker.fileSystem.DeleteDirectoryRecursively(executionContext, rootDependencyDirectory); deleteError != nil {
			return fmt.Errorf(workaroundErrorTemplateConstant, deleteError)
		}
	}

	if linkError := linker.fileSystem.CreateDirectoryLink(executionContext, rootDependencyDirectory, hostDependencyDirectory); linkError != nil {
		return fmt.Errorf(workaroundErrorTemplateConstant, linkError)
	}

	linker.logger.Debug(linkedDirectoryLogMessageConstant, linkFields...)
	return nil
}
