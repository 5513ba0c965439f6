// Package partition splits a triangle soup into its connected solids.
//
// Two triangles are connected when they share a vertex with exactly equal
// coordinates (see geometry.KeyOf). Connectivity is transitive, so every solid
// is a maximal set of triangles linked through chains of shared vertices.
package partition

import (
	"sort"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// Adjacency maps every vertex key to the indices of the triangles using it
type Adjacency map[geometry.VertexKey][]int

// BuildAdjacency indexes the triangles by vertex in a single pass.
// A triangle is listed once per distinct vertex key it contains.
func BuildAdjacency(triangles []geometry.Triangle) Adjacency {
	adj := make(Adjacency, len(triangles))
	for i, t := range triangles {
		keys := t.Keys()
		for j, key := range keys {
			if duplicateKey(keys, j) {
				continue
			}
			adj[key] = append(adj[key], i)
		}
	}
	return adj
}

// duplicateKey reports whether keys[j] already occurred earlier in keys
func duplicateKey(keys [3]geometry.VertexKey, j int) bool {
	for k := 0; k < j; k++ {
		if keys[k] == keys[j] {
			return true
		}
	}
	return false
}

// Components returns the connected solids as lists of input indices.
//
// Components are ordered by their smallest index and the indices of each
// component are ascending. An empty input yields nil.
func Components(triangles []geometry.Triangle) [][]int {
	if len(triangles) == 0 {
		return nil
	}

	adj := BuildAdjacency(triangles)
	visited := make([]bool, len(triangles))
	var components [][]int
	var stack []int

	for seed := range triangles {
		if visited[seed] {
			continue
		}

		var component []int
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			// an index can be pushed once per shared vertex
			if visited[i] {
				continue
			}
			visited[i] = true
			component = append(component, i)

			for _, key := range triangles[i].Keys() {
				for _, n := range adj[key] {
					if !visited[n] {
						stack = append(stack, n)
					}
				}
			}
		}

		sort.Ints(component)
		components = append(components, component)
	}

	return components
}

// Partition groups the triangles into connected solids.
//
// Every input triangle appears in exactly one group. Groups are copies and
// never alias the input slice. Ordering follows Components.
func Partition(triangles []geometry.Triangle) [][]geometry.Triangle {
	components := Components(triangles)
	if components == nil {
		return nil
	}

	groups := make([][]geometry.Triangle, len(components))
	for g, indices := range components {
		group := make([]geometry.Triangle, len(indices))
		for k, i := range indices {
			group[k] = triangles[i]
		}
		groups[g] = group
	}
	return groups
}
