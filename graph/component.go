package graph

import (
	"slices"

	"setcover/cover"
)

type Graph struct {
	adj [][]int
}

func NewGraph(n int) *Graph {
	return &Graph{make([][]int, n)}
}

func (g *Graph) Len() int { return len(g.adj) }

func (g *Graph) AddEdge(u, v int) {
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
}

// Components returns the connected components, each as ascending node
// list, ordered by their smallest node.
func (g *Graph) Components() [][]int {
	n := len(g.adj)
	visited := make([]bool, n)
	var components [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		component := []int{start}
		visited[start] = true
		for k := 0; k < len(component); k++ {
			for _, w := range g.adj[component[k]] {
				if !visited[w] {
					visited[w] = true
					component = append(component, w)
				}
			}
		}
		slices.Sort(component)
		components = append(components, component)
	}
	return components
}

// FromSubsets builds the overlap graph of subsets: node k is subsets[k],
// and two nodes are connected when their subsets share an index.
func FromSubsets(universe int, subsets []*cover.Subset) *Graph {
	g := NewGraph(len(subsets))
	last := make([]int, universe)
	for i := range last {
		last[i] = -1
	}
	for k, s := range subsets {
		s.Each(func(i int) {
			if last[i] >= 0 {
				g.AddEdge(last[i], k)
			}
			last[i] = k
		})
	}
	return g
}

// Split partitions the subsets of f into families over the same
// universe whose subsets share no index with any other family.
func Split(f *cover.Family) []*cover.Family {
	subsets := f.Subsets()
	var parts []*cover.Family
	for _, component := range FromSubsets(f.Universe(), subsets).Components() {
		part := f.Empty()
		for _, k := range component {
			// part shares the universe of f, Add cannot fail
			_ = part.Add(subsets[k])
		}
		parts = append(parts, part)
	}
	return parts
}
