package pdf

import "strings"

const (
	TextBlockWidth  = 500.0
	textLineHeight  = 14.0
	textBlockSize   = 10.0
	blockHeadingGap = 18.0
)

// DrawTextBlock draws a heading and word-wrapped body. Lines continue onto
// new pages once the cursor drops below BottomLimit. Blank bodies draw
// nothing. It returns the number of body lines drawn.
func DrawTextBlock(c *Context, heading, body string) int {
	if strings.TrimSpace(body) == "" {
		return 0
	}
	lines := WrapText(c.surface, body, FontRegular, textBlockSize, TextBlockWidth)
	c.EnsureSpace(blockHeadingGap + textLineHeight)
	drawText(c, Margin, c.Y(), heading, bold(12))
	c.Advance(blockHeadingGap)
	style := regular(textBlockSize)
	for _, line := range lines {
		c.BreakIfBelowLimit()
		drawText(c, Margin, c.Y(), line, style)
		c.Advance(textLineHeight)
	}
	c.Advance(16)
	return len(lines)
}
