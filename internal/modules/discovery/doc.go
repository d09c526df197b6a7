// Package discovery builds the module set from marker files found under the
// configured workspace roots.
//
// A gah-module.json file declares the non-host modules living in its
// directory; several modules may share that directory. A gah-host.json file
// declares the host module.
package discovery
