package snake

// body is a ring-buffer deque of positions with the head at the front. The
// only mutations are pushFront and popBack, which is all movement needs.
type body struct {
	cells []Position
	head  int // index of the front element
	n     int
}

func newBody(capacity int) *body {
	if capacity < 1 {
		capacity = 1
	}
	return &body{cells: make([]Position, capacity)}
}

func (b *body) len() int { return b.n }

// at returns the i-th segment counted from the head.
func (b *body) at(i int) Position {
	return b.cells[(b.head+i)%len(b.cells)]
}

func (b *body) front() Position { return b.at(0) }

func (b *body) back() Position { return b.at(b.n - 1) }

func (b *body) pushFront(p Position) {
	if b.n == len(b.cells) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.cells)) % len(b.cells)
	b.cells[b.head] = p
	b.n++
}

func (b *body) popBack() Position {
	p := b.back()
	b.n--
	return p
}

func (b *body) grow() {
	cells := make([]Position, len(b.cells)*2)
	for i := 0; i < b.n; i++ {
		cells[i] = b.at(i)
	}
	b.cells = cells
	b.head = 0
}

// slice copies the segments out, head first.
func (b *body) slice() []Position {
	out := make([]Position, b.n)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}
