package source

// Cursor is a single-pass pull sequence over an Iterator with lookahead.
//
// Lines that have been looked at but not consumed wait in a queue. After
// PeekNonblank the queue holds the run of blank lines it skipped followed by
// the non-blank line it found; Next and Peek replay that run one blank per
// call before streaming resumes.
type Cursor struct {
	src       Iterator
	queue     []Line
	exhausted bool
	last      int
}

func NewCursor(src Iterator) *Cursor {
	return &Cursor{src: src}
}

// fill makes sure at least n lines are queued.
func (c *Cursor) fill(n int) bool {
	for len(c.queue) < n {
		if c.exhausted {
			return false
		}
		l, ok := c.src.Next()
		if !ok {
			c.exhausted = true
			return false
		}
		c.queue = append(c.queue, l)
	}
	return true
}

// Next consumes and returns the next line.
func (c *Cursor) Next() (Line, bool) {
	if !c.fill(1) {
		return Line{}, false
	}
	l := c.queue[0]
	c.queue = c.queue[1:]
	c.last = l.Num
	return l, true
}

// Peek returns the next line without consuming it.
func (c *Cursor) Peek() (Line, bool) {
	if !c.fill(1) {
		return Line{}, false
	}
	return c.queue[0], true
}

// PeekNonblank returns the next non-blank line and the number of blank
// lines in front of it, without consuming anything. When only blank lines
// remain it reports false together with their count.
func (c *Cursor) PeekNonblank() (Line, int, bool) {
	for i := 0; ; i++ {
		if !c.fill(i + 1) {
			return Line{}, i, false
		}
		if !c.queue[i].IsBlank() {
			return c.queue[i], i, true
		}
	}
}

// SkipBlanks consumes the blank lines in front of the next line and
// returns how many there were.
func (c *Cursor) SkipBlanks() int {
	n := 0
	for {
		l, ok := c.Peek()
		if !ok || !l.IsBlank() {
			return n
		}
		c.Next()
		n++
	}
}

// Done reports whether every line has been consumed.
func (c *Cursor) Done() bool {
	return !c.fill(1)
}

// LastLine is the number of the furthest line consumed so far.
func (c *Cursor) LastLine() int {
	return c.last
}
