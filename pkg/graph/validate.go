package graph

import "fmt"

// ValidationSeverity indicates whether a finding breaks a Graph invariant or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant broken
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // "node 3", "e12", or empty for graph-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// Validate checks the Graph's structural invariants for its current phase
// and returns every finding. No findings of SeverityError means the Graph is
// sound. It never mutates the Graph.
func (g *Graph) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNodeAdjacency(g)...)
	if g.transformed {
		errs = append(errs, validateIncidence(g)...)
		errs = append(errs, validateEdgeAdjacency(g)...)
	}
	if g.colored {
		errs = append(errs, validateColoring(g)...)
	}
	return errs
}

// HasErrors reports whether any finding is of SeverityError.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func nodeSubject(id NodeID) string {
	return "node " + id.String()
}

// validateNodeAdjacency checks that Node adjacency is symmetric, free of
// self-loops and duplicates, and empty once the edge graph exists.
func validateNodeAdjacency(g *Graph) []ValidationError {
	var errs []ValidationError
	for i := range g.nodes {
		n := &g.nodes[i]
		if g.transformed {
			if len(n.adjNodes) != 0 {
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  fmt.Sprintf("still has %d adjacent nodes after the line-graph transform", len(n.adjNodes)),
					Severity: SeverityError,
				})
			}
			if len(n.adjEdges) == 0 {
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  "is isolated and takes part in no constraint",
					Severity: SeverityWarning,
				})
			}
			continue
		}

		if len(n.adjNodes) == 0 {
			errs = append(errs, ValidationError{
				Subject:  nodeSubject(n.ID),
				Message:  "is isolated and takes part in no constraint",
				Severity: SeverityWarning,
			})
		}
		seen := make(map[NodeID]bool, len(n.adjNodes))
		for _, a := range n.adjNodes {
			switch {
			case a == n.ID:
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  "is adjacent to itself",
					Severity: SeverityError,
				})
			case seen[a]:
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  fmt.Sprintf("lists node %s more than once", a),
					Severity: SeverityError,
				})
			case !g.nodes[a].isAdjacentTo(n.ID):
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  fmt.Sprintf("is adjacent to node %s but not the reverse", a),
					Severity: SeverityError,
				})
			}
			seen[a] = true
		}
	}
	return errs
}

// validateIncidence checks that every Edge is registered with exactly its two
// endpoints and that no Node pair is materialised twice.
func validateIncidence(g *Graph) []ValidationError {
	var errs []ValidationError

	counts := make([]int, len(g.edges))
	for i := range g.nodes {
		n := &g.nodes[i]
		for _, e := range n.adjEdges {
			if !g.edges[e].HasEndpoint(n.ID) {
				errs = append(errs, ValidationError{
					Subject:  nodeSubject(n.ID),
					Message:  fmt.Sprintf("lists %s which does not touch it", e),
					Severity: SeverityError,
				})
				continue
			}
			counts[e]++
		}
	}

	type pair struct{ a, b NodeID }
	pairs := make(map[pair]EdgeID, len(g.edges))
	for i := range g.edges {
		e := &g.edges[i]
		if e.Node1 == e.Node2 {
			errs = append(errs, ValidationError{
				Subject:  e.ID.String(),
				Message:  fmt.Sprintf("connects node %s to itself", e.Node1),
				Severity: SeverityError,
			})
		}
		if counts[i] != 2 {
			errs = append(errs, ValidationError{
				Subject:  e.ID.String(),
				Message:  fmt.Sprintf("is registered with %d endpoints, want 2", counts[i]),
				Severity: SeverityError,
			})
		}
		p := pair{e.Node1, e.Node2}
		if p.a > p.b {
			p.a, p.b = p.b, p.a
		}
		if dup, ok := pairs[p]; ok {
			errs = append(errs, ValidationError{
				Subject:  e.ID.String(),
				Message:  fmt.Sprintf("duplicates %s for nodes %s-%s", dup, p.a, p.b),
				Severity: SeverityError,
			})
			continue
		}
		pairs[p] = e.ID
	}
	return errs
}

// validateEdgeAdjacency checks that two Edges are adjacent exactly when they
// share an endpoint, and that the relation is symmetric.
func validateEdgeAdjacency(g *Graph) []ValidationError {
	var errs []ValidationError
	for i := range g.edges {
		e := &g.edges[i]
		for _, a := range e.adjEdges {
			other := &g.edges[a]
			if a == e.ID {
				errs = append(errs, ValidationError{
					Subject:  e.ID.String(),
					Message:  "is adjacent to itself",
					Severity: SeverityError,
				})
				continue
			}
			if _, ok := e.SharedEndpoint(other); !ok {
				errs = append(errs, ValidationError{
					Subject:  e.ID.String(),
					Message:  fmt.Sprintf("is adjacent to %s without a shared endpoint", a),
					Severity: SeverityError,
				})
			}
			if !other.isAdjacentTo(e.ID) {
				errs = append(errs, ValidationError{
					Subject:  e.ID.String(),
					Message:  fmt.Sprintf("is adjacent to %s but not the reverse", a),
					Severity: SeverityError,
				})
			}
		}

		// Each endpoint contributes its other incident Edges.
		want := len(g.nodes[e.Node1].adjEdges) - 1 + len(g.nodes[e.Node2].adjEdges) - 1
		if e.Degree() != want {
			errs = append(errs, ValidationError{
				Subject:  e.ID.String(),
				Message:  fmt.Sprintf("has degree %d, endpoints imply %d", e.Degree(), want),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateColoring checks that every Edge is colored and that no two
// adjacent Edges share a color.
func validateColoring(g *Graph) []ValidationError {
	var errs []ValidationError
	for i := range g.edges {
		e := &g.edges[i]
		if !e.IsColored() {
			errs = append(errs, ValidationError{
				Subject:  e.ID.String(),
				Message:  "is uncolored after coloring completed",
				Severity: SeverityError,
			})
			continue
		}
		for _, a := range e.adjEdges {
			if a > e.ID && g.edges[a].Color == e.Color {
				errs = append(errs, ValidationError{
					Subject:  e.ID.String(),
					Message:  fmt.Sprintf("shares color %d with adjacent %s", e.Color, a),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}
