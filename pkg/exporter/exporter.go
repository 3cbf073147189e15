// Package exporter writes canonical tables back out as data contract
// documents. Writers register themselves by format name; Export dispatches
// through the registry. The bundled writers emit documents the importer
// reads back without hard failures, so a table survives an import, export,
// import cycle with its identity, columns, and relationship edges intact.
package exporter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

// Writer renders one table as a document in a single target format.
type Writer interface {
	// Write renders t. The table is treated as read-only.
	Write(t *contract.Table) ([]byte, error)
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(t *contract.Table) ([]byte, error)

func (f WriterFunc) Write(t *contract.Table) ([]byte, error) { return f(t) }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Writer)
)

// Register adds a writer to the registry. Called by writer implementations
// in their init() functions; registering a taken name replaces the writer.
func Register(name string, w Writer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = w
}

// Get retrieves a writer by format name.
func Get(name string) (Writer, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	w, ok := registry[name]
	return w, ok
}

// Names returns all registered format names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks whether a format name has a writer.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Export renders t in the named format.
func Export(t *contract.Table, format string) ([]byte, error) {
	if format == "" {
		return nil, fmt.Errorf("export format not specified")
	}
	w, ok := Get(format)
	if !ok {
		return nil, &UnknownFormatError{
			Format:    format,
			Available: Names(),
		}
	}
	return w.Write(t)
}

// UnknownFormatError is returned when no writer is registered for the
// requested format.
type UnknownFormatError struct {
	Format    string
	Available []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown export format %q\nAvailable formats: %v", e.Format, e.Available)
}
