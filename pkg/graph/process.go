package graph

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Options controls the Process pipeline.
type Options struct {
	Augment bool        // add two-hop bending links before the transform
	Policy  ColorPolicy // color assignment policy
}

// DefaultOptions augments and uses the max-neighbour-plus-one policy.
func DefaultOptions() Options {
	return Options{Augment: true, Policy: PolicyMaxNeighborPlusOne}
}

// Prepare builds the edge graph of m without coloring it.
func Prepare(m Mesh, opts Options) (*Graph, error) {
	g, err := New(m)
	if err != nil {
		return nil, err
	}
	if opts.Augment {
		klog.V(2).Info("graph: augmenting")
		if err := g.Augment(); err != nil {
			return nil, err
		}
	}
	klog.V(2).Info("graph: building line graph")
	if err := g.BuildEdgeGraph(); err != nil {
		return nil, err
	}
	return g, nil
}

// Process runs the whole pipeline on m: build, augment (if enabled),
// line-graph transform, and coloring. A mesh with no triangles yields
// ErrEmptyEdgeGraph from the coloring step.
func Process(m Mesh, opts Options) (*Graph, ColorResult, error) {
	g, err := Prepare(m, opts)
	if err != nil {
		return nil, ColorResult{}, err
	}
	klog.V(2).Info("graph: coloring edge graph")
	res, err := g.ColorEdgeGraph(opts.Policy)
	if err != nil {
		return nil, ColorResult{}, errors.WithMessage(err, "process")
	}
	klog.Infof("graph: %d nodes, %d constraints, %d colors, mean class size %.2f",
		g.NodeCount(), g.EdgeCount(), res.Colors, res.MeanClassSize(g.EdgeCount()))
	return g, res, nil
}
