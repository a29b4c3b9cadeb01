package crawler

// Frontier tracks the URLs of one crawl: pages discovered but not yet
// visited, and pages already visited. A URL is never in both sets, which
// is what guarantees exactly-once visitation.
//
// Pop order is arbitrary (map iteration); nothing in the crawl depends
// on visitation order except total coverage.
type Frontier struct {
	pending map[string]struct{}
	visited map[string]struct{}
}

// NewFrontier creates a frontier seeded with the root URL.
func NewFrontier(rootURL string) *Frontier {
	f := &Frontier{
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
	f.pending[rootURL] = struct{}{}
	return f
}

// Add records a newly discovered URL. URLs already visited or already
// pending are ignored.
func (f *Frontier) Add(url string) {
	if _, ok := f.visited[url]; ok {
		return
	}
	f.pending[url] = struct{}{}
}

// Pop removes an arbitrary pending URL, marks it visited, and returns
// it. The second return value is false when the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	for url := range f.pending {
		delete(f.pending, url)
		f.visited[url] = struct{}{}
		return url, true
	}
	return "", false
}

// PendingCount returns the number of URLs awaiting a visit.
func (f *Frontier) PendingCount() int { return len(f.pending) }

// VisitedCount returns the number of URLs already visited.
func (f *Frontier) VisitedCount() int { return len(f.visited) }
