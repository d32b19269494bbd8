package selection

// List is an observable list. It is owned by the coordinator's goroutine;
// subscribers run there too.
type List[T any] struct {
	items []T
	subs  map[int]func([]T)
	next  int
}

func (l *List[T]) Items() []T {
	return l.items
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// Subscribe registers fn to receive every replacement. The returned func
// removes the subscription.
func (l *List[T]) Subscribe(fn func([]T)) (cancel func()) {
	if l.subs == nil {
		l.subs = map[int]func([]T){}
	}
	id := l.next
	l.next++
	l.subs[id] = fn
	return func() { delete(l.subs, id) }
}

func (l *List[T]) replace(items []T) {
	l.items = items
	for _, fn := range l.subs {
		fn(items)
	}
}
