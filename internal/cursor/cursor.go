// Package cursor implements a position-tracking cursor over a byte
// slice, the matching primitives the grammar packages are written
// against. A Cursor is a small value; callers back out of a failed
// alternative by saving and restoring it (or a Mark). Slices returned
// by the Take* methods alias the input; callers copy out what they
// keep.
package cursor

// A Cursor reads a byte slice left to right. The zero value is an
// exhausted cursor over no input.
type Cursor struct {
	in  []byte
	off int
}

// A Mark is a saved cursor position.
type Mark int

// New returns a cursor positioned at the start of b.
func New(b []byte) Cursor {
	return Cursor{in: b}
}

// Empty reports whether the cursor has consumed all of its input.
func (c *Cursor) Empty() bool {
	return c.off >= len(c.in)
}

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int {
	return len(c.in) - c.off
}

// Rest returns the unconsumed bytes without consuming them.
func (c *Cursor) Rest() []byte {
	return c.in[c.off:]
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.off >= len(c.in) {
		return 0, false
	}
	return c.in[c.off], true
}

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// Reset moves the cursor back to a previously saved position.
func (c *Cursor) Reset(m Mark) {
	c.off = int(m)
}

// Since returns the bytes consumed since m.
func (c *Cursor) Since(m Mark) []byte {
	return c.in[int(m):c.off]
}

// Tag consumes lit if the input starts with it, byte for byte.
func (c *Cursor) Tag(lit string) bool {
	if len(lit) > len(c.in)-c.off {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if c.in[c.off+i] != lit[i] {
			return false
		}
	}
	c.off += len(lit)
	return true
}

// TagFold is Tag with ASCII case folding.
func (c *Cursor) TagFold(lit string) bool {
	if len(lit) > len(c.in)-c.off {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if lower(c.in[c.off+i]) != lower(lit[i]) {
			return false
		}
	}
	c.off += len(lit)
	return true
}

// TakeByte consumes a single byte satisfying pred.
func (c *Cursor) TakeByte(pred func(byte) bool) (byte, bool) {
	if c.off >= len(c.in) || !pred(c.in[c.off]) {
		return 0, false
	}
	b := c.in[c.off]
	c.off++
	return b, true
}

// TakeWhile consumes the longest (possibly empty) run of bytes
// satisfying pred.
func (c *Cursor) TakeWhile(pred func(byte) bool) []byte {
	s := c.off
	for c.off < len(c.in) && pred(c.in[c.off]) {
		c.off++
	}
	return c.in[s:c.off]
}

// TakeWhile1 is TakeWhile requiring at least one byte. On failure
// nothing is consumed.
func (c *Cursor) TakeWhile1(pred func(byte) bool) ([]byte, bool) {
	b := c.TakeWhile(pred)
	if len(b) == 0 {
		return nil, false
	}
	return b, true
}

// TakeWhileMN consumes between min and max bytes satisfying pred,
// greedily. On failure nothing is consumed.
func (c *Cursor) TakeWhileMN(min, max int, pred func(byte) bool) ([]byte, bool) {
	s := c.off
	for c.off < len(c.in) && c.off-s < max && pred(c.in[c.off]) {
		c.off++
	}
	if c.off-s < min {
		c.off = s
		return nil, false
	}
	return c.in[s:c.off], true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
