// Package builtin registers the vacancy sources shipped with the importer.
package builtin

import (
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/sources/emply"
	"github.com/ffwagency/vacancy-importer/internal/sources/hrmanager"
)

// Definitions returns the built-in source definitions.
func Definitions() []sources.Definition {
	return []sources.Definition{
		emply.Definition(),
		hrmanager.Definition(),
	}
}

// Register adds every built-in source to r.
func Register(r *sources.Registry) error {
	for _, def := range Definitions() {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
