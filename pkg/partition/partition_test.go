package partition

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

func tri(v1, v2, v3 geometry.Vector3) geometry.Triangle {
	return geometry.NewTriangle(geometry.Vector3{}, v1, v2, v3)
}

func v(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

// cube returns 12 triangles of an axis-aligned cube at the given offset
func cube(ox, oy, oz float64) []geometry.Triangle {
	p := func(x, y, z float64) geometry.Vector3 { return v(ox+x, oy+y, oz+z) }
	return []geometry.Triangle{
		tri(p(0, 0, 0), p(1, 0, 0), p(1, 1, 0)), tri(p(0, 0, 0), p(1, 1, 0), p(0, 1, 0)),
		tri(p(0, 0, 1), p(1, 0, 1), p(1, 1, 1)), tri(p(0, 0, 1), p(1, 1, 1), p(0, 1, 1)),
		tri(p(0, 0, 0), p(1, 0, 0), p(1, 0, 1)), tri(p(0, 0, 0), p(1, 0, 1), p(0, 0, 1)),
		tri(p(0, 1, 0), p(1, 1, 0), p(1, 1, 1)), tri(p(0, 1, 0), p(1, 1, 1), p(0, 1, 1)),
		tri(p(0, 0, 0), p(0, 1, 0), p(0, 1, 1)), tri(p(0, 0, 0), p(0, 1, 1), p(0, 0, 1)),
		tri(p(1, 0, 0), p(1, 1, 0), p(1, 1, 1)), tri(p(1, 0, 0), p(1, 1, 1), p(1, 0, 1)),
	}
}

// tagged gives each triangle a unique attribute so that groups can be mapped back to input indices
func tagged(triangles []geometry.Triangle) []geometry.Triangle {
	out := make([]geometry.Triangle, len(triangles))
	for i, t := range triangles {
		t.Attribute = uint16(i)
		out[i] = t
	}
	return out
}

// membership returns the partition as a canonical set of sorted attribute sets
func membership(groups [][]geometry.Triangle) [][]int {
	sets := make([][]int, 0, len(groups))
	for _, g := range groups {
		ids := make([]int, 0, len(g))
		for _, t := range g {
			ids = append(ids, int(t.Attribute))
		}
		sort.Ints(ids)
		sets = append(sets, ids)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i][0] < sets[j][0] })
	return sets
}

// referenceComponents is a brute-force union-find over pairwise shared vertices
func referenceComponents(triangles []geometry.Triangle) [][]int {
	parent := make([]int, len(triangles))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for a := range triangles {
		for b := a + 1; b < len(triangles); b++ {
			if sharesVertex(triangles[a], triangles[b]) {
				parent[find(a)] = find(b)
			}
		}
	}

	byRoot := map[int][]int{}
	for i := range triangles {
		r := find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	sets := make([][]int, 0, len(byRoot))
	for _, s := range byRoot {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i][0] < sets[j][0] })
	return sets
}

func sharesVertex(a, b geometry.Triangle) bool {
	for _, ka := range a.Keys() {
		for _, kb := range b.Keys() {
			if ka == kb {
				return true
			}
		}
	}
	return false
}

func TestPartitionEmpty(t *testing.T) {
	assert.Empty(t, Partition(nil))
	assert.Empty(t, Partition([]geometry.Triangle{}))
	assert.Empty(t, Components(nil))
}

func TestPartitionSingleTriangle(t *testing.T) {
	input := []geometry.Triangle{tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))}

	groups := Partition(input)
	require.Len(t, groups, 1)
	assert.Equal(t, input, groups[0])
}

func TestPartitionTwoDisjointTriangles(t *testing.T) {
	input := []geometry.Triangle{
		tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0)),
		tri(v(5, 5, 5), v(6, 5, 5), v(5, 6, 5)),
	}

	groups := Partition(input)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 1)
}

func TestPartitionSharedEdge(t *testing.T) {
	a := tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	b := tri(v(1, 0, 0), v(0, 1, 0), v(1, 1, 0))

	groups := Partition([]geometry.Triangle{a, b})
	require.Len(t, groups, 1)
	assert.Equal(t, []geometry.Triangle{a, b}, groups[0])
}

func TestPartitionTransitiveChain(t *testing.T) {
	// A and C touch only through B, on different vertices
	a := tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	b := tri(v(1, 0, 0), v(2, 0, 0), v(2, 1, 0))
	c := tri(v(2, 1, 0), v(3, 1, 0), v(3, 2, 0))
	require.False(t, sharesVertex(a, c))

	groups := Partition([]geometry.Triangle{a, c, b})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestPartitionNearlyIdenticalVerticesStaySeparate(t *testing.T) {
	near := float64(float32(1.0000001))
	a := tri(v(1.0, 0, 0), v(2, 0, 0), v(2, 1, 0))
	b := tri(v(near, 0, 0), v(0, 5, 0), v(0, 6, 0))

	groups := Partition([]geometry.Triangle{a, b})
	assert.Len(t, groups, 2)
}

func TestPartitionSignedZeroAndNaN(t *testing.T) {
	negZero := math.Copysign(0, -1)
	nan := math.NaN()

	input := []geometry.Triangle{
		tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0)),
		tri(v(negZero, 0, negZero), v(-1, 0, 0), v(0, -1, 0)),
		tri(v(nan, 9, 9), v(10, 10, 10), v(11, 10, 10)),
		tri(v(nan, 9, 9), v(20, 20, 20), v(21, 20, 20)),
	}

	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, Components(input))
}

func TestPartitionDegenerateTriangle(t *testing.T) {
	// all three corners identical; listed once in the adjacency index
	point := tri(v(1, 1, 1), v(1, 1, 1), v(1, 1, 1))
	other := tri(v(1, 1, 1), v(2, 1, 1), v(1, 2, 1))

	adj := BuildAdjacency([]geometry.Triangle{point, other})
	assert.Equal(t, []int{0, 1}, adj[geometry.KeyOf(v(1, 1, 1))])

	groups := Partition([]geometry.Triangle{point, other})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}

func TestBuildAdjacency(t *testing.T) {
	input := []geometry.Triangle{
		tri(v(0, 0, 0), v(1, 0, 0), v(0, 1, 0)),
		tri(v(1, 0, 0), v(0, 1, 0), v(1, 1, 0)),
	}

	adj := BuildAdjacency(input)
	assert.Len(t, adj, 4)
	assert.Equal(t, []int{0}, adj[geometry.KeyOf(v(0, 0, 0))])
	assert.Equal(t, []int{0, 1}, adj[geometry.KeyOf(v(1, 0, 0))])
	assert.Equal(t, []int{0, 1}, adj[geometry.KeyOf(v(0, 1, 0))])
	assert.Equal(t, []int{1}, adj[geometry.KeyOf(v(1, 1, 0))])
}

func TestComponentsOrdering(t *testing.T) {
	var input []geometry.Triangle
	first := cube(0, 0, 0)
	second := cube(10, 0, 0)
	// interleave the two cubes
	for i := range first {
		input = append(input, second[i], first[i])
	}

	components := Components(input)
	require.Len(t, components, 2)
	assert.Equal(t, 0, components[0][0])
	assert.Equal(t, 1, components[1][0])
	for _, c := range components {
		assert.True(t, sort.IntsAreSorted(c))
		assert.Len(t, c, 12)
	}
}

func TestPartitionDoesNotAlias(t *testing.T) {
	input := cube(0, 0, 0)
	groups := Partition(input)
	require.Len(t, groups, 1)

	groups[0][0].V1 = v(99, 99, 99)
	assert.Equal(t, v(0, 0, 0), input[0].V1)
}

func TestPartitionLargeStripDoesNotRecurse(t *testing.T) {
	// consecutive triangles share one corner, forming a chain as deep as the input
	const n = 200000
	input := make([]geometry.Triangle, 0, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		input = append(input, tri(v(x, 0, 0), v(x+1, 0, 0), v(x, 1, 0)))
	}

	groups := Partition(input)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], n)
}

func TestPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var input []geometry.Triangle
	input = append(input, cube(0, 0, 0)...)
	input = append(input, cube(5, 0, 0)...)
	input = append(input, cube(1, 0, 0)...) // shares a face with the first cube
	// random triangles on a small integer lattice to force incidental sharing
	for i := 0; i < 300; i++ {
		p := func() geometry.Vector3 {
			return v(float64(rng.Intn(40)+20), float64(rng.Intn(40)), float64(rng.Intn(3)))
		}
		input = append(input, tri(p(), p(), p()))
	}
	input = tagged(input)

	groups := Partition(input)

	t.Run("totality", func(t *testing.T) {
		seen := make([]int, len(input))
		total := 0
		for _, g := range groups {
			total += len(g)
			for _, tr := range g {
				seen[tr.Attribute]++
			}
		}
		assert.Equal(t, len(input), total)
		for i, n := range seen {
			assert.Equal(t, 1, n, "triangle %d", i)
		}
	})

	t.Run("equivalence", func(t *testing.T) {
		assert.Equal(t, referenceComponents(input), membership(groups))
	})

	t.Run("order independence", func(t *testing.T) {
		shuffled := append([]geometry.Triangle(nil), input...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, membership(groups), membership(Partition(shuffled)))
	})

	t.Run("idempotence", func(t *testing.T) {
		assert.Equal(t, groups, Partition(input))
	})
}

func BenchmarkPartition(b *testing.B) {
	var input []geometry.Triangle
	for i := 0; i < 1000; i++ {
		input = append(input, cube(float64(i)*2, 0, 0)...)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Partition(input)
	}
}
