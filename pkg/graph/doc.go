// Package graph derives a constraint graph from a triangle mesh and colors it
// for conflict-free parallel processing.
//
// The pipeline is: build a vertex graph from the mesh triangles, optionally
// augment it with two-hop "bending" edges, turn it into its line graph (every
// vertex pair becomes an Edge, and two Edges are adjacent when they share an
// endpoint), then color the line graph with a DSATUR-style greedy heuristic.
// Edges that receive the same color never share a mesh vertex, so a solver
// can relax every constraint of one color class concurrently.
//
// Nodes and Edges live in arenas owned by the Graph and refer to each other
// by index.
package graph
