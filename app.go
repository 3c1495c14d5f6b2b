package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/roft/pkg/engine"
	"github.com/chazu/roft/pkg/export"
	"github.com/chazu/roft/pkg/graph"
	"github.com/chazu/roft/pkg/kernel"
	"github.com/chazu/roft/pkg/kernel/manifold"
	"github.com/chazu/roft/pkg/kernel/sdfx"
	"github.com/chazu/roft/pkg/meshio"
	"github.com/chazu/roft/pkg/scene"
	"github.com/chazu/roft/pkg/store"
	"github.com/chazu/roft/pkg/tessellate"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// App runs the constraint pipeline: acquire meshes, build and color their
// constraint graphs, and export the results.
type App struct {
	cfg    Config
	policy graph.ColorPolicy
	engine *engine.Engine
	kernel kernel.Kernel
	store  *store.Store // nil when caching is off
}

// PartResult is the outcome for one mesh.
type PartResult struct {
	Name   string
	Mesh   *kernel.Mesh
	Graph  *graph.Graph
	Result graph.ColorResult
	Stats  graph.Stats
	Cached bool // colors came from the store
}

// RunResult is the outcome of one Run. Script and scene problems are
// reported in Errors rather than as a Go error, and stop the run before any
// part is processed.
type RunResult struct {
	Parts    []PartResult
	Errors   []engine.EvalError
	Warnings []string
}

// NewApp validates cfg and opens the coloring cache unless it is disabled.
func NewApp(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := graph.ParseColorPolicy(cfg.Policy)

	a := &App{
		cfg:    cfg,
		policy: policy,
		engine: engine.NewEngineWithTimeout(cfg.Timeout),
	}
	k, err := newKernel(cfg)
	if err != nil {
		return nil, err
	}
	a.kernel = k
	if !cfg.NoCache {
		st, err := store.Open(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		a.store = st
	}
	return a, nil
}

func newKernel(cfg Config) (kernel.Kernel, error) {
	if cfg.Kernel == KernelManifold {
		return manifold.New()
	}
	return sdfx.NewWithResolution(cfg.Resolution), nil
}

// Close releases the cache.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Run loads the configured meshes and processes each one in turn, writing
// output files when an output directory is set.
func (a *App) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{}
	meshes, err := a.loadMeshes(ctx, res)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return res, nil
	}

	for _, m := range meshes {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "run")
		}
		pr, err := a.ProcessMesh(m)
		if err != nil {
			return nil, errors.Wrapf(err, "part %q", m.PartName)
		}
		if a.cfg.OutDir != "" {
			if err := a.Export(pr); err != nil {
				return nil, err
			}
		}
		res.Parts = append(res.Parts, pr)
	}
	return res, nil
}

func (a *App) loadMeshes(ctx context.Context, res *RunResult) ([]*kernel.Mesh, error) {
	switch src := a.cfg.ResolvedSource(); src {
	case SourceQuad:
		m, err := kernel.Quad(a.cfg.QuadWidth, a.cfg.QuadHeight, a.cfg.QuadSubX, a.cfg.QuadSubY)
		if err != nil {
			return nil, err
		}
		m.PartName = "quad"
		return []*kernel.Mesh{m}, nil

	case SourceOBJ:
		m, err := a.readOBJ(a.cfg.Input)
		if err != nil {
			return nil, err
		}
		return []*kernel.Mesh{m}, nil

	case SourceScene:
		source, err := os.ReadFile(a.cfg.Input)
		if err != nil {
			return nil, errors.Wrap(err, "read scene")
		}
		return a.EvaluateScene(ctx, string(source), res)

	default:
		return nil, errors.Wrapf(ErrBadConfig, "unknown source %q", src)
	}
}

func (a *App) readOBJ(path string) (*kernel.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read OBJ")
	}
	defer f.Close()

	m, err := meshio.ReadOBJ(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	if a.cfg.WeldEps >= 0 {
		before := m.VertexCount()
		m = m.Weld(a.cfg.WeldEps)
		klog.V(2).Infof("app: welded %d vertices into %d", before, m.VertexCount())
	}
	if m.PartName == "" {
		m.PartName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// EvaluateScene evaluates a scene script and tessellates every part.
// Script errors and scene validation errors are appended to res.Errors and
// yield no meshes; validation warnings go to res.Warnings.
func (a *App) EvaluateScene(ctx context.Context, source string, res *RunResult) ([]*kernel.Mesh, error) {
	s, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		res.Errors = append(res.Errors, evalErrs...)
		return nil, nil
	}

	findings := scene.Validate(s)
	for _, f := range findings {
		if f.Severity == scene.SeverityError {
			res.Errors = append(res.Errors, engine.EvalError{Message: f.Error()})
		} else {
			res.Warnings = append(res.Warnings, f.Error())
		}
	}
	if scene.HasErrors(findings) {
		return nil, nil
	}

	return tessellate.Tessellate(s, a.kernel)
}

// ProcessMesh builds the constraint graph of m and colors it, reusing a
// cached coloring when one exists for the same mesh and options.
func (a *App) ProcessMesh(m *kernel.Mesh) (PartResult, error) {
	opts := graph.Options{Augment: a.cfg.Augment, Policy: a.policy}
	g, err := graph.Prepare(m, opts)
	if err != nil {
		return PartResult{}, err
	}
	pr := PartResult{Name: m.PartName, Mesh: m, Graph: g}

	key := store.Key{Fingerprint: store.Fingerprint(m), Augment: opts.Augment, Policy: opts.Policy}
	if a.store != nil {
		pr.Cached = a.applyCached(g, key, &pr.Result)
	}
	if !pr.Cached {
		pr.Result, err = g.ColorEdgeGraph(opts.Policy)
		if err != nil {
			return PartResult{}, err
		}
		if a.store != nil {
			entry := &store.Entry{
				Nodes:  g.NodeCount(),
				Edges:  g.EdgeCount(),
				Colors: g.Colors(),
				Count:  pr.Result.Colors,
				Steps:  pr.Result.Steps,
			}
			if err := a.store.Put(key, entry); err != nil {
				klog.Warningf("app: caching %q: %v", pr.Name, err)
			}
		}
	}

	if findings := g.Validate(); graph.HasErrors(findings) {
		return PartResult{}, errors.Errorf("constraint graph failed validation: %v", findings[0])
	}
	pr.Stats = g.Stats()
	klog.Infof("app: %q: %d constraints in %d colors (cached: %v)", pr.Name, pr.Stats.Edges, pr.Stats.Colors, pr.Cached)
	return pr, nil
}

// applyCached installs a stored coloring into g. A missing or unusable
// entry is a miss.
func (a *App) applyCached(g *graph.Graph, key store.Key, out *graph.ColorResult) bool {
	e, err := a.store.Get(key)
	if err != nil {
		if errors.Cause(err) != store.ErrNotFound {
			klog.Warningf("app: reading cache: %v", err)
		}
		return false
	}
	n, err := g.ApplyColors(e.Colors)
	if err != nil {
		klog.Warningf("app: discarding cached coloring: %v", err)
		return false
	}
	*out = graph.ColorResult{Colors: n, Steps: e.Steps, Policy: key.Policy}
	return true
}

// Export writes the part's DOT files, its mesh as OBJ, and optionally an
// SVG rendering into the output directory.
func (a *App) Export(pr PartResult) error {
	if err := os.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return errors.Wrap(err, "export")
	}
	base := filepath.Join(a.cfg.OutDir, fileStem(pr.Name))

	writers := map[string]func(io.Writer) error{
		base + ".simple.dot": func(w io.Writer) error { return export.WriteSimpleDOT(w, pr.Graph) },
		base + ".line.dot":   func(w io.Writer) error { return export.WriteLineDOT(w, pr.Graph) },
		base + ".obj":        func(w io.Writer) error { return meshio.WriteOBJ(w, pr.Mesh) },
	}
	if a.cfg.SVG {
		writers[base+".svg"] = func(w io.Writer) error {
			return export.WriteSVG(w, pr.Graph, export.DefaultSVGOptions())
		}
	}
	for path, write := range writers {
		if err := writeFile(path, write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "export")
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	klog.V(2).Infof("app: wrote %s", path)
	return errors.Wrap(f.Close(), "export")
}

// fileStem makes a part name safe to use as a file name.
func fileStem(name string) string {
	if name == "" {
		return "part"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
