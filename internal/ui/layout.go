package ui

// Rect is a region of the terminal in cells.
type Rect struct {
	X, Y, W, H int
}

// Area returns W*H; zero means the region is hidden.
func (r Rect) Area() int { return r.W * r.H }

// Regions is the fixed workbench topology: sidebars flank a center region,
// with a header row above and a status row below.
type Regions struct {
	Header Rect
	Left   Rect
	Center Rect
	Right  Rect
	Status Rect
}

const (
	// sidebarWidth is the default column width of each sidebar.
	sidebarWidth = 32
	// minSidebarWidth and maxSidebarWidth bound user resizing.
	minSidebarWidth = 16
	maxSidebarWidth = 60
	// minCenterWidth keeps the center usable on narrow terminals by
	// shrinking sidebars before the center.
	minCenterWidth = 20
)

// ComputeRegions splits a terminal of the given size using the default
// sidebar width. A hidden sidebar gets a zero-area Rect, never a negative one.
func ComputeRegions(width, height int, leftVisible, rightVisible bool) Regions {
	leftW, rightW := 0, 0
	if leftVisible {
		leftW = sidebarWidth
	}
	if rightVisible {
		rightW = sidebarWidth
	}
	return ComputeRegionsWidths(width, height, leftW, rightW)
}

// ComputeRegionsWidths is ComputeRegions with explicit sidebar widths; a zero
// width hides that side.
func ComputeRegionsWidths(width, height, leftW, rightW int) Regions {
	var r Regions
	if width <= 0 || height <= 0 {
		return r
	}
	r.Header = Rect{X: 0, Y: 0, W: width, H: 1}
	r.Status = Rect{X: 0, Y: height - 1, W: width, H: 1}

	body := height - 2
	if body < 0 {
		body = 0
	}

	for width-leftW-rightW < minCenterWidth && (leftW > 0 || rightW > 0) {
		if rightW >= leftW && rightW > 0 {
			rightW--
		} else {
			leftW--
		}
	}
	centerW := width - leftW - rightW
	if centerW < 0 {
		centerW = 0
	}

	r.Left = Rect{X: 0, Y: 1, W: leftW, H: body}
	r.Center = Rect{X: leftW, Y: 1, W: centerW, H: body}
	r.Right = Rect{X: leftW + centerW, Y: 1, W: rightW, H: body}
	if r.Left.W == 0 {
		r.Left.H = 0
	}
	if r.Right.W == 0 {
		r.Right.H = 0
	}
	return r
}
