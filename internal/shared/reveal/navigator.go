package reveal

import "sync"

// Route names the lists whose reveal position is kept across navigation.
type Route string

const (
	RouteCatalogue Route = "catalogue"
	RouteHistory   Route = "history"
)

// Navigator owns the reveal windows of one user. Windows are created on first
// entry to a route, kept while the user navigates elsewhere and back, and
// reset when the route's search query changes or its data is refetched.
type Navigator struct {
	mu      sync.Mutex
	batch   int
	windows map[Route]Window
	queries map[Route]string
}

// NewNavigator builds an empty navigator.
func NewNavigator(batch int) *Navigator {
	return &Navigator{
		batch:   batch,
		windows: map[Route]Window{},
		queries: map[Route]string{},
	}
}

// Enter returns the window for route, initializing it on first entry.
func (n *Navigator) Enter(route Route) Window {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.windowLocked(route)
}

// Query records the search query for route and resets the window when it
// changed. A route never queried counts as the empty query.
func (n *Navigator) Query(route Route, query string) Window {
	n.mu.Lock()
	defer n.mu.Unlock()
	w := n.windowLocked(route)
	if n.queries[route] != query {
		w = w.Reset()
		n.windows[route] = w
	}
	n.queries[route] = query
	return w
}

// More reveals another batch on route.
func (n *Navigator) More(route Route) Window {
	n.mu.Lock()
	defer n.mu.Unlock()
	w := n.windowLocked(route).More()
	n.windows[route] = w
	return w
}

// Reset puts route back to one batch.
func (n *Navigator) Reset(route Route) Window {
	n.mu.Lock()
	defer n.mu.Unlock()
	w := NewWindow(n.batch)
	n.windows[route] = w
	return w
}

func (n *Navigator) windowLocked(route Route) Window {
	w, ok := n.windows[route]
	if !ok {
		w = NewWindow(n.batch)
		n.windows[route] = w
	}
	return w
}

// Registry hands out one navigator per owner.
type Registry struct {
	batch      int
	navigators sync.Map
}

// NewRegistry builds a registry whose navigators use batch.
func NewRegistry(batch int) *Registry {
	return &Registry{batch: batch}
}

// For returns the navigator of owner.
func (r *Registry) For(owner string) *Navigator {
	if nav, ok := r.navigators.Load(owner); ok {
		return nav.(*Navigator)
	}
	nav, _ := r.navigators.LoadOrStore(owner, NewNavigator(r.batch))
	return nav.(*Navigator)
}
