package schema

import "sort"

const (
	maxDepth   = 4
	nodeBudget = 20000
	rootPath   = "root"
	itemPath   = "[i]"
)

type frame struct {
	node  any
	path  string
	depth int
}

// walk visits arrays and objects reachable from root in pre-order, up to
// maxDepth levels below it. Object keys are visited in sorted order so results
// do not depend on map iteration. Arrays are entered through their first
// object element only. visit returns false to stop the walk.
func walk(root any, visit func(path string, node any) bool) {
	stack := []frame{{node: root, path: rootPath}}
	visited := 0

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.depth > maxDepth {
			continue
		}

		visited++
		if visited > nodeBudget {
			return
		}

		switch node := current.node.(type) {
		case []any:
			if !visit(current.path, node) {
				return
			}
			if first, ok := firstObject(node); ok {
				stack = append(stack, frame{node: first, path: current.path + "." + itemPath, depth: current.depth + 1})
			}
		case map[string]any:
			if !visit(current.path, node) {
				return
			}
			keys := sortedKeys(node)
			for i := len(keys) - 1; i >= 0; i-- {
				child := node[keys[i]]
				switch child.(type) {
				case []any, map[string]any:
					stack = append(stack, frame{node: child, path: current.path + "." + keys[i], depth: current.depth + 1})
				}
			}
		}
	}
}

func firstObject(items []any) (map[string]any, bool) {
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
