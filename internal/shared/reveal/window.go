// Package reveal drives incremental reveal of already-fetched lists.
package reveal

// DefaultBatch is the initial visible count and the step for each "load more".
const DefaultBatch = 10

// Window tracks how many items of a list are revealed.
type Window struct {
	Visible int
	Batch   int
}

// NewWindow starts a window showing one batch.
func NewWindow(batch int) Window {
	if batch <= 0 {
		batch = DefaultBatch
	}
	return Window{Visible: batch, Batch: batch}
}

// More reveals one more batch.
func (w Window) More() Window {
	if w.Batch <= 0 {
		w.Batch = DefaultBatch
	}
	w.Visible += w.Batch
	return w
}

// Reset goes back to a single batch.
func (w Window) Reset() Window {
	return NewWindow(w.Batch)
}

// Remaining reports how many of total items are still hidden.
func (w Window) Remaining(total int) int {
	return Remaining(total, w.Visible)
}

// Remaining returns max(0, total-visible).
func Remaining(total, visible int) int {
	if visible < 0 {
		visible = 0
	}
	if total <= visible {
		return 0
	}
	return total - visible
}

// Slice returns the first visible items. A negative count reveals nothing.
func Slice[T any](items []T, visible int) []T {
	if visible <= 0 {
		return []T{}
	}
	if visible >= len(items) {
		return items
	}
	return items[:visible]
}
