package cache

// node is an entry of the LRU list. The head is the most recently used.
type node[K comparable, V any] struct {
	key   K
	value V
	cost  int64
	prev  *node[K, V]
	next  *node[K, V]
}

// lruList is a doubly-linked list of entries. It is not thread-safe.
type lruList[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
	len  int
}

func (l *lruList[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

func (l *lruList[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// oldest returns the least recently used entry, or nil.
func (l *lruList[K, V]) oldest() *node[K, V] {
	return l.tail
}

func (l *lruList[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.len--
}
