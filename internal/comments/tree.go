// Package comments holds the pure helpers over a comment tree: counting,
// ordering, lookup, statistics and presentation hints.
//
// The tree comes off the network, so every helper treats a nil Replies slice
// or a nil entry as "no children" instead of failing.
package comments

import (
	"slices"

	"blogfront/internal/models"
)

type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

// ParseSortOrder falls back to Newest for anything unknown.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == Oldest {
		return Oldest
	}
	return Newest
}

// TotalCount returns the number of nodes reachable from roots.
func TotalCount(roots []*models.Comment) int {
	count := 0
	stack := slices.Clone(roots)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		count++
		stack = append(stack, node.Replies...)
	}
	return count
}

// Sort returns a new slice of the top-level comments ordered by CreatedAt.
// Newest sorts descending, any other order ascending. Ties keep their input
// order and replies are left as received.
func Sort(list []*models.Comment, order SortOrder) []*models.Comment {
	sorted := make([]*models.Comment, 0, len(list))
	for _, c := range list {
		if c != nil {
			sorted = append(sorted, c)
		}
	}

	slices.SortStableFunc(sorted, func(a, b *models.Comment) int {
		if order == Newest {
			return b.CreatedAt.Compare(a.CreatedAt.Time)
		}
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	})
	return sorted
}

// FindByID walks the tree depth first, pre-order, and returns the first node
// with the given id.
func FindByID(roots []*models.Comment, id int64) (*models.Comment, bool) {
	stack := reversed(roots)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.ID == id {
			return node, true
		}
		stack = append(stack, reversed(node.Replies)...)
	}
	return nil, false
}

// Depth returns how many ancestors the comment with the given id has, or -1
// when it is not in the tree.
func Depth(roots []*models.Comment, id int64) int {
	type frame struct {
		node  *models.Comment
		depth int
	}

	stack := make([]frame, 0, len(roots))
	for _, r := range reversed(roots) {
		stack = append(stack, frame{node: r})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if f.node.ID == id {
			return f.depth
		}
		for _, child := range reversed(f.node.Replies) {
			stack = append(stack, frame{node: child, depth: f.depth + 1})
		}
	}
	return -1
}

// PathToRoot returns the chain from the outermost ancestor down to node. The
// walk stops quietly at a parent id that cannot be found.
func PathToRoot(node *models.Comment, roots []*models.Comment) []*models.Comment {
	if node == nil {
		return nil
	}

	path := []*models.Comment{node}
	seen := map[int64]bool{node.ID: true}
	current := node
	for current.ParentID != nil {
		parent, ok := FindByID(roots, *current.ParentID)
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		path = append(path, parent)
		current = parent
	}

	slices.Reverse(path)
	return path
}

type Stats struct {
	Total          int
	MaxDepth       int
	UniqueUsers    int
	UserCounts     map[string]int
	MostActiveUser string
}

// ComputeStats gathers counts in one pre-order pass. MaxDepth is the depth of
// the deepest non-empty level, so a flat list reports 0. On a tie for the most
// active author the one met first wins.
func ComputeStats(roots []*models.Comment) Stats {
	type frame struct {
		node  *models.Comment
		depth int
	}

	stats := Stats{UserCounts: make(map[string]int)}
	var order []string

	stack := make([]frame, 0, len(roots))
	for _, r := range reversed(roots) {
		stack = append(stack, frame{node: r})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}

		stats.Total++
		stats.MaxDepth = max(stats.MaxDepth, f.depth)
		if _, ok := stats.UserCounts[f.node.Username]; !ok {
			order = append(order, f.node.Username)
		}
		stats.UserCounts[f.node.Username]++

		for _, child := range reversed(f.node.Replies) {
			stack = append(stack, frame{node: child, depth: f.depth + 1})
		}
	}

	stats.UniqueUsers = len(stats.UserCounts)
	best := 0
	for _, user := range order {
		if n := stats.UserCounts[user]; n > best {
			best = n
			stats.MostActiveUser = user
		}
	}
	return stats
}

func reversed(list []*models.Comment) []*models.Comment {
	out := slices.Clone(list)
	slices.Reverse(out)
	return out
}
