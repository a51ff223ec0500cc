package window

import "time"

const (
	// DoubleClickInterval is the longest gap between the two presses of a double click.
	DoubleClickInterval = 400 * time.Millisecond
	// DoubleClickDistance is how far, in pixels, the cursor may move between the two presses.
	DoubleClickDistance = 4.0
)

// clickTracker recognizes double clicks from a stream of button presses.
type clickTracker struct {
	interval time.Duration
	distance float64

	button int
	x, y   float64
	at     time.Time
	armed  bool
}

// press records a button press and reports whether it completes a double click.
// A completed double click disarms the tracker so a third press starts over.
func (c *clickTracker) press(button int, x, y float64, now time.Time) bool {
	dx, dy := x-c.x, y-c.y
	double := c.armed &&
		button == c.button &&
		now.Sub(c.at) <= c.interval &&
		dx*dx+dy*dy <= c.distance*c.distance

	c.button, c.x, c.y, c.at = button, x, y, now
	c.armed = !double
	return double
}
