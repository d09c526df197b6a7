package checks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/plugins"
	"github.com/temirov/gahcheck/internal/plugins/eslint"
	"github.com/temirov/gahcheck/internal/plugins/formatting"
)

type fakeModuleDiscoverer struct {
	descriptors   []modules.Descriptor
	receivedRoots []string
	discoverError error
}

func (discoverer *fakeModuleDiscoverer) DiscoverModules(roots []string) ([]modules.Descriptor, error) {
	discoverer.receivedRoots = append([]string{}, roots...)
	if discoverer.discoverError != nil {
		return nil, discoverer.discoverError
	}
	return append([]modules.Descriptor{}, discoverer.descriptors...), nil
}

type recordedDispatch struct {
	arguments []string
	moduleSet []modules.Descriptor
}

type recordingHandler struct {
	result   bool
	failure  error
	dispatch []recordedDispatch
}

func (handler *recordingHandler) handle(_ context.Context, arguments []string, moduleSet []modules.Descriptor) (bool, error) {
	handler.dispatch = append(handler.dispatch, recordedDispatch{arguments: append([]string{}, arguments...), moduleSet: moduleSet})
	return handler.result, handler.failure
}

func newTestCatalog(testInstance *testing.T) *plugins.Catalog {
	testInstance.Helper()
	catalog, catalogError := plugins.NewCatalog(eslint.Definition(), formatting.Definition())
	require.NoError(testInstance, catalogError)
	return catalog
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}
