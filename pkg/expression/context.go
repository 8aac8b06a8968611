package expression

import "strings"

// Context is an ordered stack of variable scopes. The innermost (most
// recently pushed) scope shadows outer ones. Popping a scope never affects
// ancestors, and mutating a child context never mutates its parent.
type Context struct {
	scopes []map[string]any
}

// NewContext creates a context with one base scope. The map is copied so the
// caller keeps ownership of its argument.
func NewContext(base map[string]any) *Context {
	c := &Context{}
	c.Push(base)
	return c
}

// Push adds a new innermost scope.
func (c *Context) Push(vars map[string]any) {
	scope := make(map[string]any, len(vars))
	for k, v := range vars {
		scope[k] = v
	}
	c.scopes = append(c.scopes, scope)
}

// Pop removes the innermost scope. Popping the last scope leaves an empty
// context rather than failing.
func (c *Context) Pop() {
	if len(c.scopes) > 0 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack.
func (c *Context) Depth() int { return len(c.scopes) }

// Set writes a variable into the innermost scope.
func (c *Context) Set(key string, value any) {
	if len(c.scopes) == 0 {
		c.Push(nil)
	}
	c.scopes[len(c.scopes)-1][key] = value
}

// Lookup resolves a dotted path (a.b.c) against the topmost scope that
// defines the first segment.
func (c *Context) Lookup(path string) (any, bool) {
	segments := strings.Split(path, ".")
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][segments[0]]; ok {
			return descend(v, segments[1:])
		}
	}
	return nil, false
}

func descend(v any, segments []string) (any, bool) {
	for _, seg := range segments {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return v, true
}

// Flatten merges all scopes into a single view, innermost winning per
// top-level key. The result is a fresh map; mutating it does not touch the
// context.
func (c *Context) Flatten() map[string]any {
	out := make(map[string]any)
	for _, scope := range c.scopes {
		for k, v := range scope {
			out[k] = v
		}
	}
	return out
}

// Child derives a copy-on-write context: each scope map is copied, so writes
// through the child are invisible to the parent.
func (c *Context) Child() *Context {
	child := &Context{scopes: make([]map[string]any, 0, len(c.scopes))}
	for _, scope := range c.scopes {
		cp := make(map[string]any, len(scope))
		for k, v := range scope {
			cp[k] = v
		}
		child.scopes = append(child.scopes, cp)
	}
	return child
}
