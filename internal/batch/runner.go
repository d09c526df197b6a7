package batch

import (
	"context"
	"errors"
	"iter"

	"github.com/temirov/gahcheck/internal/execshell"
	"github.com/temirov/gahcheck/internal/modules"
)

const (
	executorNotConfiguredMessageConstant = "batch runner shell executor not configured"
	reporterNotConfiguredMessageConstant = "batch runner progress reporter not configured"
)

// ErrShellExecutorNotConfigured indicates the runner was constructed without an executor.
var ErrShellExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrProgressReporterNotConfigured indicates the runner was constructed without a reporter.
var ErrProgressReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)

// ModuleOutcome is the result of running the command for one module.
type ModuleOutcome struct {
	Module modules.Descriptor
	Result execshell.ExecutionResult
	Err    error
}

// Succeeded reports whether the command started and exited with code zero.
func (outcome ModuleOutcome) Succeeded() bool {
	return outcome.Err == nil
}

// FailureOutput returns the captured tool output of a failed run, falling back to the error text.
func (outcome ModuleOutcome) FailureOutput() string {
	if outcome.Err == nil {
		return ""
	}
	var commandFailure execshell.CommandFailedError
	if errors.As(outcome.Err, &commandFailure) {
		if combinedOutput := commandFailure.Result.CombinedOutput(); len(combinedOutput) > 0 {
			return combinedOutput
		}
	}
	return outcome.Err.Error()
}

// Runner executes a command sequentially across a module set.
type Runner struct {
	executor ShellExecutor
	reporter ProgressReporter
}

// NewRunner validates collaborators and constructs a Runner.
func NewRunner(executor ShellExecutor, reporter ProgressReporter) (*Runner, error) {
	if executor == nil {
		return nil, ErrShellExecutorNotConfigured
	}
	if reporter == nil {
		return nil, ErrProgressReporterNotConfigured
	}
	return &Runner{executor: executor, reporter: reporter}, nil
}

// Run executes the command for every qualifying module and reports whether all of them succeeded.
// Failures are recorded and never stop the loop.
func (runner *Runner) Run(executionContext context.Context, moduleSet []modules.Descriptor, specification CommandSpecification) bool {
	aggregatedResult := true
	for outcome := range runner.Outcomes(executionContext, moduleSet, specification) {
		if !outcome.Succeeded() {
			aggregatedResult = false
		}
	}
	return aggregatedResult
}

// Outcomes yields one outcome per qualifying module. Each module runs only when the consumer pulls its outcome.
func (runner *Runner) Outcomes(executionContext context.Context, moduleSet []modules.Descriptor, specification CommandSpecification) iter.Seq[ModuleOutcome] {
	candidateModules := moduleSet
	if specification.DeduplicateByBasePath {
		candidateModules = modules.UniqueByBasePath(moduleSet)
	}

	return func(yield func(ModuleOutcome) bool) {
		for _, module := range candidateModules {
			if module.IsHost {
				continue
			}
			if !yield(runner.runModule(executionContext, module, specification)) {
				return
			}
		}
	}
}

// RunOnce executes a single command outside any module, such as a global tool installation.
// Labels are used verbatim.
func (runner *Runner) RunOnce(executionContext context.Context, specification CommandSpecification) bool {
	runner.reporter.StartActivity(specification.Labels.Started)
	_, executionError := runner.executor.ExecuteShell(executionContext, specification.Command, execshell.CommandDetails{
		WorkingDirectory: specification.WorkingDirectoryOverride,
		StreamOutput:     specification.StreamOutput,
	})
	if executionError != nil {
		runner.reporter.StopActivity(false, specification.Labels.Failed)
		runner.reporter.Error(ModuleOutcome{Err: executionError}.FailureOutput())
		return false
	}
	runner.reporter.StopActivity(true, specification.Labels.Succeeded)
	return true
}

func (runner *Runner) runModule(executionContext context.Context, module modules.Descriptor, specification CommandSpecification) ModuleOutcome {
	startedLabel := renderLabel(specification.Labels.Started, module.ModuleName)
	if specification.Presentation == PresentationLog {
		runner.reporter.Log(startedLabel)
	} else {
		runner.reporter.StartActivity(startedLabel)
	}

	executionResult, executionError := runner.executor.ExecuteShell(executionContext, specification.Command, execshell.CommandDetails{
		WorkingDirectory: specification.workingDirectory(module.BasePath),
		StreamOutput:     specification.StreamOutput,
	})
	outcome := ModuleOutcome{Module: module, Result: executionResult, Err: executionError}

	if specification.Presentation == PresentationLog {
		if !outcome.Succeeded() && !specification.StreamOutput {
			runner.reporter.Error(outcome.FailureOutput())
		}
		return outcome
	}

	if outcome.Succeeded() {
		runner.reporter.StopActivity(true, renderLabel(specification.Labels.Succeeded, module.ModuleName))
		return outcome
	}
	runner.reporter.StopActivity(false, renderLabel(specification.Labels.Failed, module.ModuleName))
	if !specification.StreamOutput {
		runner.reporter.Error(outcome.FailureOutput())
	}
	return outcome
}
