//go:build !manifold

package manifold

import (
	"github.com/chazu/roft/pkg/kernel"
	"github.com/pkg/errors"
)

// New reports ErrUnavailable: this binary was built without manifoldc.
func New() (kernel.Kernel, error) {
	return nil, errors.Wrap(ErrUnavailable, "build with -tags=manifold")
}
