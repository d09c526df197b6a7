package modules

import "errors"

const (
	hostModuleNotFoundMessageConstant = "host module not found"
)

// ErrHostModuleNotFound indicates the module set does not contain a host module.
var ErrHostModuleNotFound = errors.New(hostModuleNotFoundMessageConstant)

// Descriptor identifies one discovered source module.
type Descriptor struct {
	ModuleName string
	BasePath   string
	IsHost     bool
}

// UniqueByBasePath keeps the first descriptor for every distinct base path, preserving order.
func UniqueByBasePath(descriptors []Descriptor) []Descriptor {
	uniqueDescriptors := make([]Descriptor, 0, len(descriptors))
	seenBasePaths := make(map[string]struct{}, len(descriptors))

	for _, descriptor := range descriptors {
		if _, alreadySeen := seenBasePaths[descriptor.BasePath]; alreadySeen {
			continue
		}
		seenBasePaths[descriptor.BasePath] = struct{}{}
		uniqueDescriptors = append(uniqueDescriptors, descriptor)
	}

	return uniqueDescriptors
}

// FindHost returns the first descriptor flagged as the host module.
func FindHost(descriptors []Descriptor) (Descriptor, error) {
	for _, descriptor := range descriptors {
		if descriptor.IsHost {
			return descriptor, nil
		}
	}
	return Descriptor{}, ErrHostModuleNotFound
}
