package pdf

// Layout constants shared by every section, in points.
const (
	Margin          = 50.0
	BottomLimit     = 100.0
	ContentRight    = PageWidth - Margin
	SectionGap      = 20.0
	FooterBaseline  = 30.0
	HeaderMinHeight = 120.0
)

// Cursor is the position where the next section starts drawing.
type Cursor struct {
	Page int
	Y    float64
}

// Context threads the surface and cursor through the layout pipeline.
// Sections draw at the cursor and move it; when a section needs a new page
// the cursor follows, so later sections always draw on the current page.
type Context struct {
	surface Surface
	cursor  Cursor
	width   float64
	height  float64
}

// NewContext starts a document on a fresh first page with the cursor at
// the top margin.
func NewContext(surface Surface) *Context {
	w, h := surface.PageSize()
	c := &Context{surface: surface, width: w, height: h}
	page := surface.AddPage()
	c.cursor = Cursor{Page: page, Y: h - Margin}
	return c
}

// Surface exposes the backend for primitives.
func (c *Context) Surface() Surface { return c.surface }

// Cursor returns a copy of the current cursor.
func (c *Context) Cursor() Cursor { return c.cursor }

// Y is shorthand for the cursor's vertical position.
func (c *Context) Y() float64 { return c.cursor.Y }

// Top is the first baseline on a page.
func (c *Context) Top() float64 { return c.height - Margin }

// Width returns the page width.
func (c *Context) Width() float64 { return c.width }

// MoveTo places the cursor at y on the current page.
func (c *Context) MoveTo(y float64) { c.cursor.Y = y }

// Advance moves the cursor down by dy.
func (c *Context) Advance(dy float64) { c.cursor.Y -= dy }

// NewPage appends a page and resets the cursor to its top.
func (c *Context) NewPage() {
	page := c.surface.AddPage()
	c.cursor = Cursor{Page: page, Y: c.Top()}
}

// BreakIfBelowLimit starts a new page when the cursor has dropped under
// the bottom limit. It reports whether a page was added.
func (c *Context) BreakIfBelowLimit() bool {
	if c.cursor.Y >= BottomLimit {
		return false
	}
	c.NewPage()
	return true
}

// EnsureSpace starts a new page when a block of height h would cross the
// bottom limit. Blocks taller than a page are left to the caller.
func (c *Context) EnsureSpace(h float64) bool {
	if c.cursor.Y-h >= BottomLimit {
		return false
	}
	c.NewPage()
	return true
}

// PageCount reports how many pages the surface holds.
func (c *Context) PageCount() int { return c.surface.PageCount() }
