package queue

// itemEntry wraps an item with a sequence number so equal priorities keep
// submission order.
type itemEntry struct {
	item *Item
	seq  uint64
}

// itemHeap is a max-heap: higher priority first, then lower sequence.
type itemHeap []*itemEntry

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].item.Priority != h[j].item.Priority {
		return h[i].item.Priority > h[j].item.Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(*itemEntry))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}

// remove deletes the entry holding the given item id. Used by Cancel.
func (h *itemHeap) remove(id string) bool {
	for i, entry := range *h {
		if entry.item.ID == id {
			old := *h
			old[i] = old[len(old)-1]
			old[len(old)-1] = nil
			*h = old[:len(old)-1]
			return true
		}
	}
	return false
}
