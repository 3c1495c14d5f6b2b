package export

import (
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/roft/pkg/graph"
	"github.com/pkg/errors"
)

// SVGOptions controls the SVG rendering.
type SVGOptions struct {
	Width       int // canvas width in pixels; height follows the mesh aspect
	Margin      int
	StrokeWidth int
	NodeRadius  int
}

// DefaultSVGOptions returns an 800px wide canvas.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Margin: 20, StrokeWidth: 2, NodeRadius: 3}
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG draws every constraint as a segment between its endpoints,
// stroked with its color, over the mesh vertices. The view is the XY plane
// with Y pointing up.
func WriteSVG(w io.Writer, g *graph.Graph, opts SVGOptions) error {
	if !g.Transformed() {
		return errors.Wrap(graph.ErrNotTransformed, "export: SVG")
	}
	if opts.Width <= 2*opts.Margin {
		return errors.Errorf("export: SVG width %d leaves no room inside margin %d", opts.Width, opts.Margin)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < g.NodeCount(); i++ {
		p := g.Node(graph.NodeID(i)).Pos
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if g.NodeCount() == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}
	extent := math.Max(maxX-minX, maxY-minY)
	if extent == 0 {
		extent = 1
	}
	scale := float64(opts.Width-2*opts.Margin) / extent
	height := int(math.Ceil((maxY-minY)*scale)) + 2*opts.Margin

	project := func(p graph.Vec3) (int, int) {
		x := float64(opts.Margin) + (p.X-minX)*scale
		y := float64(opts.Margin) + (maxY-p.Y)*scale
		return int(math.Round(x)), int(math.Round(y))
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(opts.Width, height)
	canvas.Title("constraint coloring")
	canvas.Rect(0, 0, opts.Width, height, "fill:white")

	canvas.Gstyle("stroke-linecap:round;stroke-width:" + strconv.Itoa(opts.StrokeWidth))
	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(graph.EdgeID(i))
		x1, y1 := project(g.Node(e.Node1).Pos)
		x2, y2 := project(g.Node(e.Node2).Pos)
		stroke := ColorName(e.Color)
		if stroke == "" {
			stroke = "gray"
		}
		canvas.Line(x1, y1, x2, y2, "stroke:"+stroke)
	}
	canvas.Gend()

	if opts.NodeRadius > 0 {
		canvas.Gstyle("fill:black")
		for i := 0; i < g.NodeCount(); i++ {
			x, y := project(g.Node(graph.NodeID(i)).Pos)
			canvas.Circle(x, y, opts.NodeRadius)
		}
		canvas.Gend()
	}
	canvas.End()

	return errors.Wrap(ew.err, "export: SVG")
}
