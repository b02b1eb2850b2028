package model

// DefaultSwipeThreshold is the horizontal touch distance, in CSS pixels, a
// swipe must exceed to change slides.
const DefaultSwipeThreshold = 50

// Carousel is the position of a slider over Count items. It is a value type:
// every operation returns a new Carousel. Navigation wraps around at both ends.
type Carousel struct {
	Index          int
	Count          int
	SwipeThreshold int
}

// NewCarousel returns a carousel over count items positioned at index, which is
// normalised into range.
func NewCarousel(count, index int) Carousel {
	c := Carousel{Count: count, SwipeThreshold: DefaultSwipeThreshold}
	return c.Goto(index)
}

// Goto moves to index, wrapping out-of-range values.
func (c Carousel) Goto(index int) Carousel {
	if c.Count <= 0 {
		c.Index = 0
		return c
	}
	c.Index = ((index % c.Count) + c.Count) % c.Count
	return c
}

// Next moves one item forward.
func (c Carousel) Next() Carousel {
	return c.Goto(c.Index + 1)
}

// Prev moves one item back.
func (c Carousel) Prev() Carousel {
	return c.Goto(c.Index - 1)
}

// Swipe applies a touch gesture with horizontal delta (end X minus start X).
// A leftward swipe beyond the threshold advances, a rightward one goes back,
// anything shorter leaves the position unchanged.
func (c Carousel) Swipe(delta int) Carousel {
	threshold := c.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	switch {
	case delta < -threshold:
		return c.Next()
	case delta > threshold:
		return c.Prev()
	default:
		return c
	}
}

// NextIndex and PrevIndex expose the neighbouring positions for link rendering.
func (c Carousel) NextIndex() int { return c.Next().Index }

func (c Carousel) PrevIndex() int { return c.Prev().Index }
