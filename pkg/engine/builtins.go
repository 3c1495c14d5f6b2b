package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/roft/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (sub-x -> sub_x), because
//     zygomys reads a hyphen as the subtraction operator.
//  3. ; line comments become // comments.
//
// String literals and comments are copied through untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	kind scene.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		switch {
		case !ok:
			result.positional = append(result.positional, args[i])
		case i+1 < len(args):
			result.kw[name] = args[i+1]
			i++
		default:
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float reads an optional numeric keyword into dst.
func (pa kwArgs) float(key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return errors.Wrap(err, key)
	}
	*dst = f
	return nil
}

// int reads an optional integer keyword into dst. Floats are truncated.
func (pa kwArgs) int(key string, dst *int) error {
	var f float64
	if _, ok := pa.kw[key]; !ok {
		return nil
	}
	if err := pa.float(key, &f); err != nil {
		return err
	}
	*dst = int(f)
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", errors.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a node reference.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, errors.Errorf("expected shape or part, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, errors.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toNodeIDs converts every arg to a node reference.
func toNodeIDs(args []zygo.Sexp) ([]scene.NodeID, error) {
	ids := make([]scene.NodeID, 0, len(args))
	for i, a := range args {
		ref, err := toNodeRef(a)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		ids = append(ids, ref.id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Scene builder
// ---------------------------------------------------------------------------

// builder accumulates the Scene for one evaluation. Anonymous nodes are
// numbered per label so ids are reproducible for the same source.
type builder struct {
	scene  *scene.Scene
	counts map[string]int
}

func newBuilder() *builder {
	return &builder{scene: scene.New(), counts: make(map[string]int)}
}

// add creates a node whose id is derived from label and name (or a per-label
// sequence number when name is empty) and returns a reference to it.
func (b *builder) add(label string, kind scene.NodeKind, name string, children []scene.NodeID, data scene.NodeData) *sexpNodeRef {
	path := label + "/" + name
	if name == "" {
		b.counts[label]++
		path = fmt.Sprintf("%s/#%d", label, b.counts[label])
	}
	id := scene.NewNodeID(path)
	b.scene.AddNode(&scene.Node{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id, kind: kind, name: name}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the scene builtins into a zygomys environment.
// Source must go through preprocessSource first so that :keyword tokens are
// recognizable.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	for name, fn := range map[string]builtin{
		"vec3":         b.vec3,
		"sheet":        b.sheet,
		"box":          b.box,
		"cylinder":     b.cylinder,
		"sphere":       b.sphere,
		"union":        b.boolean(scene.OpUnion),
		"difference":   b.boolean(scene.OpDifference),
		"intersection": b.boolean(scene.OpIntersection),
		"translate":    b.transform("translate"),
		"rotate":       b.transform("rotate"),
		"defpart":      b.defpart,
		"part":         b.part,
		"group":        b.group,
	} {
		env.AddFunction(name, fn)
	}
}

// (vec3 1 2 3)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, errors.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var v [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, errors.Wrapf(err, "vec3: %c", "xyz"[i])
		}
		v[i] = f
	}
	return &sexpVec3{vec: scene.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
}

// (sheet :width 10 :height 10 :sub 20) or :sub-x / :sub-y separately.
func (b *builder) sheet(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	d := scene.SheetData{SubX: 1, SubY: 1}

	var sub int
	for _, err := range []error{
		pa.float("width", &d.Width),
		pa.float("height", &d.Height),
		pa.int("sub", &sub),
	} {
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sheet")
		}
	}
	if sub > 0 {
		d.SubX, d.SubY = sub, sub
	}
	if err := pa.int("sub-x", &d.SubX); err != nil {
		return zygo.SexpNull, errors.Wrap(err, "sheet")
	}
	if err := pa.int("sub-y", &d.SubY); err != nil {
		return zygo.SexpNull, errors.Wrap(err, "sheet")
	}
	return b.add("sheet", scene.NodeSheet, "", nil, d), nil
}

// (box :x 10 :y 20 :z 5) or (box :size (vec3 10 20 5))
func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	d := scene.SolidData{Kind: scene.SolidBox}

	if v, ok := pa.kw["size"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "box: size")
		}
		d.Size = vec
	}
	for _, err := range []error{
		pa.float("x", &d.Size.X),
		pa.float("y", &d.Size.Y),
		pa.float("z", &d.Size.Z),
	} {
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "box")
		}
	}
	return b.add("box", scene.NodeSolid, "", nil, d), nil
}

// (cylinder :radius 3 :height 10)
func (b *builder) cylinder(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	d := scene.SolidData{Kind: scene.SolidCylinder}
	if err := pa.float("radius", &d.Radius); err != nil {
		return zygo.SexpNull, errors.Wrap(err, "cylinder")
	}
	if err := pa.float("height", &d.Height); err != nil {
		return zygo.SexpNull, errors.Wrap(err, "cylinder")
	}
	return b.add("cylinder", scene.NodeSolid, "", nil, d), nil
}

// (sphere :radius 5)
func (b *builder) sphere(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	d := scene.SolidData{Kind: scene.SolidSphere}
	if err := pa.float("radius", &d.Radius); err != nil {
		return zygo.SexpNull, errors.Wrap(err, "sphere")
	}
	return b.add("sphere", scene.NodeSolid, "", nil, d), nil
}

// (union a b ...), (difference a b ...), (intersection a b ...)
func (b *builder) boolean(op scene.BooleanOp) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, errors.Errorf("%s requires at least 2 shapes, got %d", op, len(args))
		}
		children, err := toNodeIDs(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, op.String())
		}
		return b.add(op.String(), scene.NodeBoolean, "", children, scene.BooleanData{Op: op}), nil
	}
}

// (translate shape (vec3 x y z)) and (rotate shape (vec3 rx ry rz))
func (b *builder) transform(label string) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, errors.Errorf("%s requires a shape and a vec3, got %d arguments", label, len(args))
		}
		ref, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrapf(err, "%s: shape", label)
		}
		vec, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, errors.Wrapf(err, "%s: offset", label)
		}

		td := scene.TransformData{}
		if label == "rotate" {
			td.Rotation = &vec
		} else {
			td.Translation = &vec
		}
		return b.add(label, scene.NodeTransform, "", []scene.NodeID{ref.id}, td), nil
	}
}

// (defpart "name" shape)
func (b *builder) defpart(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, errors.New("defpart requires a name and a body expression")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, "defpart: name")
	}
	if b.scene.Lookup(partName) != nil {
		return zygo.SexpNull, errors.Errorf("defpart: %q is already defined", partName)
	}
	body, err := toNodeRef(args[1])
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, "defpart: body")
	}
	if body.kind == scene.NodePart || body.kind == scene.NodeGroup {
		return zygo.SexpNull, errors.Errorf("defpart: body must be a shape, got %s", body.kind)
	}

	ref := b.add("defpart", scene.NodePart, partName, []scene.NodeID{body.id}, scene.PartData{})
	b.scene.AddRoot(ref.id)
	return ref, nil
}

// (part "name")
func (b *builder) part(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, errors.New("part requires a name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, "part: name")
	}
	n := b.scene.Lookup(partName)
	if n == nil {
		return zygo.SexpNull, errors.Errorf("part: no part named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, kind: n.Kind, name: partName}, nil
}

// (group "name" (part "a") (part "b") ...)
func (b *builder) group(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, errors.New("group requires a name argument")
	}
	groupName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, "group: name")
	}
	children, err := toNodeIDs(args[1:])
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, "group")
	}

	ref := b.add("group", scene.NodeGroup, groupName, children, scene.GroupData{})
	b.scene.AddRoot(ref.id)
	return ref, nil
}
