package wikiredirect

// Redirects maps source titles to the title they redirect to.
//
// A source redirects to exactly one target, but many sources may
// redirect to the same target.  Putting a source twice replaces its
// target.  Iteration follows the order sources were first put.
type Redirects struct {
	targets map[string]string
	order   []string
}

// NewRedirects gets an empty index.
func NewRedirects() *Redirects {
	return &Redirects{targets: map[string]string{}}
}

// NewRedirectsSize gets an empty index with room for n entries.
func NewRedirectsSize(n int) *Redirects {
	if n < 0 {
		n = 0
	}
	return &Redirects{
		targets: make(map[string]string, n),
		order:   make([]string, 0, n),
	}
}

// Put records that source redirects to target.
func (r *Redirects) Put(source, target string) {
	if _, exists := r.targets[source]; !exists {
		r.order = append(r.order, source)
	}
	r.targets[source] = target
}

// Get returns the target of source.
func (r *Redirects) Get(source string) (string, bool) {
	t, ok := r.targets[source]
	return t, ok
}

// Len is the number of sources.
func (r *Redirects) Len() int {
	return len(r.targets)
}

// SourcesByTarget gets every source that redirects to target.
//
// This walks the whole index.
func (r *Redirects) SourcesByTarget(target string) []string {
	var rv []string
	for _, s := range r.order {
		if r.targets[s] == target {
			rv = append(rv, s)
		}
	}
	return rv
}

// Each calls f for every entry until f returns false.
func (r *Redirects) Each(f func(source, target string) bool) {
	for _, s := range r.order {
		if !f(s, r.targets[s]) {
			return
		}
	}
}
