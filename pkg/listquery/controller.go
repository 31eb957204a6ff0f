package listquery

import "sync"

// Controller holds the current query of one list view. Mutators return the
// new query; the previous value is never modified.
type Controller struct {
	mu      sync.RWMutex
	current ListQuery
}

func NewController(initial ListQuery) *Controller {
	return &Controller{current: initial}
}

func (c *Controller) Query() ListQuery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Controller) apply(fn func(ListQuery) ListQuery) ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = fn(c.current)
	return c.current
}

func (c *Controller) SetSort(key string) ListQuery {
	return c.apply(func(q ListQuery) ListQuery { return q.WithSort(key) })
}

func (c *Controller) SetFilter(field string, op Operator, operand any) ListQuery {
	return c.apply(func(q ListQuery) ListQuery { return q.WithFilter(field, op, operand) })
}

// SetStringFilter drops the rule when value is empty, as a cleared search box
// means "no filter" rather than "matches the empty string".
func (c *Controller) SetStringFilter(field string, op Operator, value string) ListQuery {
	if value == "" {
		return c.ClearFilter(field)
	}
	return c.SetFilter(field, op, value)
}

func (c *Controller) ClearFilter(field string) ListQuery {
	return c.apply(func(q ListQuery) ListQuery { return q.WithoutFilter(field) })
}

func (c *Controller) SetPage(offset, size int) ListQuery {
	return c.apply(func(q ListQuery) ListQuery { return q.WithPage(offset, size) })
}
