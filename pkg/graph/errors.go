package graph

import "github.com/pkg/errors"

var (
	ErrMalformedMesh      = errors.New("malformed mesh")
	ErrIndexOutOfRange    = errors.New("triangle index out of range")
	ErrAlreadyTransformed = errors.New("graph already transformed into an edge graph")
	ErrNotTransformed     = errors.New("edge graph has not been built")
	ErrEmptyEdgeGraph     = errors.New("edge graph is empty")
	ErrInvalidColoring    = errors.New("invalid coloring")
)
