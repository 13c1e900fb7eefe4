// Package configio loads a YAML tuning overlay onto a compile-time
// geom.Geometry. It exists only for the host-side simulator/tuning CLI
// (spec.md §6 "Geometric constants ... carried as compile-time values";
// §1 "no file I/O" rules this out of the control tick itself). Nothing in
// pkg/control/scheduler imports this package.
//
// Grounded on cmd/spectrometer/internal/config/loader.go's format-detecting
// loader, trimmed to the one format SPEC_FULL.md commits to (YAML) since
// the protobuf/JSON marshallers that loader also supported belong to the
// vision/spectrometer stack this control core does not carry.
package configio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kercre123/victor-sub070/pkg/control/geom"
)

// LoadOverlay reads a YAML file at path and applies any fields it sets on
// top of base, returning the merged Geometry. A field the file omits keeps
// base's value: the overlay only ever narrows, never replaces wholesale.
func LoadOverlay(path string, base geom.Geometry) (geom.Geometry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("configio: read %s: %w", path, err)
	}

	out := base
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return base, fmt.Errorf("configio: parse %s: %w", path, err)
	}
	return out, nil
}
