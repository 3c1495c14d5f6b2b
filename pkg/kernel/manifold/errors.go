package manifold

import "github.com/pkg/errors"

// SphereSegments is the number of facets around a sphere's equator.
const SphereSegments = 32

// ErrUnavailable is returned by New when the binary lacks manifoldc.
var ErrUnavailable = errors.New("manifold kernel not available")
