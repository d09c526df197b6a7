package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gahcheck/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant = "git executor not configured"
	requiredValueMessageConstant         = "value required"
	emptyRootOutputMessageConstant       = "git reported an empty repository root"
	revParseSubcommandConstant           = "rev-parse"
	showTopLevelFlagConstant             = "--show-toplevel"
	rootResolutionErrorTemplateConstant  = "failed to resolve repository root for %s: %w"
	invalidPathErrorTemplateConstant     = "repository path %q: %s"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrEmptyRepositoryRoot indicates git succeeded but printed no root path.
var ErrEmptyRepositoryRoot = errors.New(emptyRootOutputMessageConstant)

// GitExecutor exposes the git invocation used by RepositoryManager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InvalidRepositoryPathError reports an unusable repository path argument.
type InvalidRepositoryPathError struct {
	RepositoryPath string
}

// Error describes the invalid path.
func (pathError InvalidRepositoryPathError) Error() string {
	return fmt.Sprintf(invalidPathErrorTemplateConstant, pathError.RepositoryPath, requiredValueMessageConstant)
}

// RepositoryManager performs repository-level git queries.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetRootDirectory returns the top-level directory of the repository containing repositoryPath.
func (manager *RepositoryManager) GetRootDirectory(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", InvalidRepositoryPathError{RepositoryPath: repositoryPath}
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, showTopLevelFlagConstant},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, trimmedPath, executionError)
	}

	rootDirectory := strings.TrimSpace(executionResult.StandardOutput)
	if len(rootDirectory) == 0 {
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, trimmedPath, ErrEmptyRepositoryRoot)
	}
	return rootDirectory, nil
}
