package main

import (
	"flag"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/roft/pkg/engine"
	"github.com/chazu/roft/pkg/graph"
	"github.com/chazu/roft/pkg/kernel/sdfx"
	"github.com/pkg/errors"
)

// Mesh sources.
const (
	SourceQuad  = "quad"  // generated flat sheet
	SourceOBJ   = "obj"   // Wavefront OBJ file
	SourceScene = "scene" // scene script evaluated by the engine
)

// Geometry kernels for scene solids.
const (
	KernelSdfx     = "sdfx"     // signed distance fields meshed by marching cubes
	KernelManifold = "manifold" // manifoldc; needs the manifold build tag
)

// ErrBadConfig is returned by Config.Validate.
var ErrBadConfig = errors.New("bad configuration")

// Config controls one run of the constraint pipeline.
type Config struct {
	Source string // SourceQuad, SourceOBJ or SourceScene; empty infers from Input
	Input  string // OBJ or scene script path

	QuadWidth  float64
	QuadHeight float64
	QuadSubX   int
	QuadSubY   int

	Augment bool
	Policy  string // "max-plus-one" or "smallest"

	Kernel     string        // KernelSdfx or KernelManifold
	Resolution int           // sdfx marching cubes cells along the longest axis
	WeldEps    float64       // OBJ vertex weld distance; negative disables welding
	Timeout    time.Duration // scene evaluation limit

	OutDir   string // DOT, SVG and OBJ output; empty writes nothing
	SVG      bool
	CacheDir string // badger directory; empty keeps the cache in memory
	NoCache  bool
}

// DefaultConfig colors a 10x10 sheet with augmentation on.
func DefaultConfig() Config {
	return Config{
		QuadWidth:  1,
		QuadHeight: 1,
		QuadSubX:   10,
		QuadSubY:   10,
		Augment:    true,
		Policy:     graph.PolicyMaxNeighborPlusOne.String(),
		Kernel:     KernelSdfx,
		Resolution: sdfx.DefaultMeshCells,
		WeldEps:    0,
		Timeout:    engine.EvalTimeout,
	}
}

// RegisterFlags binds every field to a flag on fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Source, "source", c.Source, "mesh source: quad, obj or scene (default: inferred from the input path)")
	fs.StringVar(&c.Input, "in", c.Input, "OBJ or scene script path")
	fs.Float64Var(&c.QuadWidth, "quad-width", c.QuadWidth, "quad sheet width")
	fs.Float64Var(&c.QuadHeight, "quad-height", c.QuadHeight, "quad sheet height")
	fs.IntVar(&c.QuadSubX, "quad-sub-x", c.QuadSubX, "quad sheet cells along X")
	fs.IntVar(&c.QuadSubY, "quad-sub-y", c.QuadSubY, "quad sheet cells along Y")
	fs.BoolVar(&c.Augment, "augment", c.Augment, "add two-hop bending constraints")
	fs.StringVar(&c.Policy, "policy", c.Policy, "coloring policy: max-plus-one or smallest")
	fs.StringVar(&c.Kernel, "kernel", c.Kernel, "geometry kernel for scene solids: sdfx or manifold")
	fs.IntVar(&c.Resolution, "resolution", c.Resolution, "marching cubes cells for solids")
	fs.Float64Var(&c.WeldEps, "weld", c.WeldEps, "OBJ vertex weld distance (negative disables)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "scene evaluation time limit")
	fs.StringVar(&c.OutDir, "out", c.OutDir, "directory for DOT/SVG/OBJ output")
	fs.BoolVar(&c.SVG, "svg", c.SVG, "also write an SVG rendering of each coloring")
	fs.StringVar(&c.CacheDir, "cache", c.CacheDir, "coloring cache directory (empty: in memory)")
	fs.BoolVar(&c.NoCache, "no-cache", c.NoCache, "disable the coloring cache")
}

// ResolvedSource returns Source, or the source implied by Input's extension.
func (c Config) ResolvedSource() string {
	if c.Source != "" {
		return c.Source
	}
	switch {
	case c.Input == "":
		return SourceQuad
	case strings.EqualFold(filepath.Ext(c.Input), ".obj"):
		return SourceOBJ
	default:
		return SourceScene
	}
}

// Validate checks field ranges and combinations.
func (c Config) Validate() error {
	if _, err := graph.ParseColorPolicy(c.Policy); err != nil {
		return errors.Wrapf(ErrBadConfig, "%v", err)
	}
	switch c.ResolvedSource() {
	case SourceQuad:
		if c.QuadWidth <= 0 || c.QuadHeight <= 0 {
			return errors.Wrapf(ErrBadConfig, "quad size %gx%g must be positive", c.QuadWidth, c.QuadHeight)
		}
		if c.QuadSubX < 1 || c.QuadSubY < 1 {
			return errors.Wrapf(ErrBadConfig, "quad subdivisions %dx%d must be at least 1", c.QuadSubX, c.QuadSubY)
		}
	case SourceOBJ, SourceScene:
		if c.Input == "" {
			return errors.Wrapf(ErrBadConfig, "source %q needs an input path", c.Source)
		}
	default:
		return errors.Wrapf(ErrBadConfig, "unknown source %q", c.Source)
	}
	if c.Kernel != KernelSdfx && c.Kernel != KernelManifold {
		return errors.Wrapf(ErrBadConfig, "unknown kernel %q", c.Kernel)
	}
	if c.Resolution < 1 {
		return errors.Wrapf(ErrBadConfig, "resolution %d must be at least 1", c.Resolution)
	}
	return nil
}
