package game

import "fmt"

const (
	feedMaxEntries = 12
)

// FeedEntry is a single line in the on-screen terminal feed.
type FeedEntry struct {
	Tick    int
	Message string
}

func (e FeedEntry) String() string {
	return fmt.Sprintf("[%06d] %s", e.Tick, e.Message)
}

// TermFeed is a ring buffer of terminal-styled status lines rendered under
// the active view.
type TermFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewTermFeed creates a feed with a fixed capacity.
func NewTermFeed() *TermFeed {
	return &TermFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends a line to the feed.
func (f *TermFeed) Add(tick int, format string, args ...any) {
	f.entries[f.head] = FeedEntry{
		Tick:    tick,
		Message: fmt.Sprintf(format, args...),
	}
	f.head = (f.head + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
}

// Lines returns the buffered lines oldest-first.
func (f *TermFeed) Lines() []string {
	out := make([]string, 0, f.count)
	start := f.head - f.count
	if start < 0 {
		start += len(f.entries)
	}
	for i := 0; i < f.count; i++ {
		out = append(out, f.entries[(start+i)%len(f.entries)].String())
	}
	return out
}
