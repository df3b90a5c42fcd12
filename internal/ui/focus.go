package ui

// FocusManager tracks and rotates keyboard focus across panel ids. The order
// is rebuilt after every structural layout change, so Current may name a
// panel that no longer exists until SetOrder reconciles it.
type FocusManager struct {
	Current  string
	Order    []string
	OnChange func(from, to string)
}

// SetOrder replaces the tab order. If the current focus is no longer in the
// order it snaps to the first entry.
func (f *FocusManager) SetOrder(order []string) {
	f.Order = order
	if f.indexOf(f.Current) >= 0 {
		return
	}
	from := f.Current
	if len(order) > 0 {
		f.Current = order[0]
	} else {
		f.Current = ""
	}
	f.fire(from)
}

// Next advances focus and returns the new focus id.
func (f *FocusManager) Next() string {
	return f.rotate(1)
}

// Prev moves focus backwards and returns the new focus id.
func (f *FocusManager) Prev() string {
	return f.rotate(-1)
}

// SetFocus focuses the given id. Returns false when the id is not in the
// order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.indexOf(id) < 0 {
		return false
	}
	from := f.Current
	f.Current = id
	f.fire(from)
	return true
}

func (f *FocusManager) rotate(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.indexOf(f.Current)
	from := f.Current
	f.Current = f.Order[((idx+delta)%n+n)%n]
	f.fire(from)
	return f.Current
}

func (f *FocusManager) indexOf(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) fire(from string) {
	if f.OnChange != nil && from != f.Current {
		f.OnChange(from, f.Current)
	}
}
