package render

import "strings"

// Glyph size of ebitenutil's debug font.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// Corner anchors overlay text to one corner of the screen.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Text is an overlay string anchored to a screen corner.
type Text struct {
	Value string
	// Corner and the margins place the text block; margins are measured
	// from the anchored edges.
	Corner  Corner
	MarginX float32
	MarginY float32
	// Width wraps lines at this many pixels; zero disables wrapping.
	Width float32
}

// Lines returns the text split on line breaks and wrapped to Width.
func (t Text) Lines() []string {
	var lines []string
	maxChars := 0
	if t.Width > 0 {
		maxChars = max(1, int(t.Width)/glyphWidth)
	}
	for line := range strings.SplitSeq(t.Value, "\n") {
		lines = append(lines, wrap(line, maxChars)...)
	}
	return lines
}

// Layout returns the top-left pixel of every line for a screen of the given
// size.
func (t Text) Layout(screenWidth, screenHeight int) (lines []string, xs, ys []int) {
	lines = t.Lines()
	blockHeight := len(lines) * glyphHeight
	blockWidth := 0
	for _, l := range lines {
		blockWidth = max(blockWidth, len(l)*glyphWidth)
	}

	x := int(t.MarginX)
	if t.Corner == TopRight || t.Corner == BottomRight {
		x = screenWidth - int(t.MarginX) - blockWidth
	}
	y := int(t.MarginY)
	if t.Corner == BottomLeft || t.Corner == BottomRight {
		y = screenHeight - int(t.MarginY) - blockHeight
	}

	xs = make([]int, len(lines))
	ys = make([]int, len(lines))
	for i := range lines {
		xs[i] = x
		ys[i] = y + i*glyphHeight
	}
	return lines, xs, ys
}

// wrap breaks line at word boundaries so no piece exceeds maxChars. Words
// longer than maxChars are split. maxChars <= 0 disables wrapping.
func wrap(line string, maxChars int) []string {
	if maxChars <= 0 || len(line) <= maxChars {
		return []string{line}
	}

	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		for len(word) > maxChars {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			out = append(out, word[:maxChars])
			word = word[maxChars:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= maxChars:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			out = append(out, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
