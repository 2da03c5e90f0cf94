package coop

type lesser[E any] interface {
	less(v E) bool
}

// priorityqueue is a binary min-heap.
// Elements that compare equal come out in no particular order.
type priorityqueue[E lesser[E]] struct {
	s []E
}

func (q *priorityqueue[E]) Empty() bool {
	return len(q.s) == 0
}

func (q *priorityqueue[E]) Len() int {
	return len(q.s)
}

// Peek returns the least element without removing it.
// Peek must not be called on an empty queue.
func (q *priorityqueue[E]) Peek() E {
	return q.s[0]
}

func (q *priorityqueue[E]) Push(v E) {
	s := append(q.s, v)
	i := len(s) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !s[i].less(s[p]) {
			break
		}
		s[i], s[p] = s[p], s[i]
		i = p
	}
	q.s = s
}

func (q *priorityqueue[E]) Pop() (v E) {
	s := q.s
	n := len(s) - 1
	v = s[0]
	s[0] = s[n]
	var zero E
	s[n] = zero
	s = s[:n]
	i := 0
	for {
		l := 2*i + 1
		if l >= n {
			break
		}
		m := l
		if r := l + 1; r < n && s[r].less(s[l]) {
			m = r
		}
		if !s[m].less(s[i]) {
			break
		}
		s[i], s[m] = s[m], s[i]
		i = m
	}
	q.s = s
	return v
}
