package tour

// Side is where a tooltip sits relative to its target.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideAuto   Side = "auto"
)

// Rect is a target's bounding box in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Empty reports a box with no visible area. Hidden elements measure this way.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Viewport is the visible area.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a tooltip's box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a fixed-position offset.
type Point struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Layout holds one tour's placement constants. RightSpace, BottomSpace and
// LeftSpace are the room auto placement needs before it picks that side.
type Layout struct {
	Tooltip     Size
	Gap         float64
	Margin      float64
	RightSpace  float64
	BottomSpace float64
	LeftSpace   float64
	ArrowSize   float64
	ArrowOffset float64
}

// ResolvePlacement turns a requested side into a concrete one. Auto tries
// right, bottom, then left, and settles on top.
func ResolvePlacement(target Rect, vp Viewport, requested Side, l Layout) Side {
	switch requested {
	case SideTop, SideBottom, SideLeft, SideRight:
		return requested
	}
	switch {
	case vp.Width-target.Right() > l.RightSpace:
		return SideRight
	case vp.Height-target.Bottom() > l.BottomSpace:
		return SideBottom
	case target.Left > l.LeftSpace:
		return SideLeft
	default:
		return SideTop
	}
}

// TooltipPosition places the tooltip Gap away from target on side, centred on
// the other axis, then clamps both axes to [Margin, viewport-size-Margin].
func TooltipPosition(target Rect, vp Viewport, side Side, l Layout) Point {
	w, h := l.Tooltip.Width, l.Tooltip.Height
	centerX := target.Left + target.Width/2 - w/2
	centerY := target.Top + target.Height/2 - h/2

	var p Point
	switch side {
	case SideRight:
		p = Point{Left: target.Right() + l.Gap, Top: centerY}
	case SideLeft:
		p = Point{Left: target.Left - l.Gap - w, Top: centerY}
	case SideBottom:
		p = Point{Left: centerX, Top: target.Bottom() + l.Gap}
	default:
		p = Point{Left: centerX, Top: target.Top - l.Gap - h}
	}
	p.Left = clamp(p.Left, l.Margin, vp.Width-w-l.Margin)
	p.Top = clamp(p.Top, l.Margin, vp.Height-h-l.Margin)
	return p
}

// ArrowPosition places the arrow ArrowOffset away from target on side. It is
// not clamped.
func ArrowPosition(target Rect, side Side, l Layout) Point {
	size, off := l.ArrowSize, l.ArrowOffset
	midX := target.Left + target.Width/2 - size
	midY := target.Top + target.Height/2 - size
	switch side {
	case SideRight:
		return Point{Left: target.Right() + off, Top: midY}
	case SideLeft:
		return Point{Left: target.Left - off - size*2, Top: midY}
	case SideBottom:
		return Point{Left: midX, Top: target.Bottom() + off}
	default:
		return Point{Left: midX, Top: target.Top - off - size*2}
	}
}

// clamp prefers lo when the range is empty, so a tooltip larger than the
// viewport pins to the top-left margin.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
