package registry

// Dimension names which filter state a cascade applies to.
type Dimension int

const (
	Categories Dimension = iota + 1
	Keywords
)

func (d Dimension) String() string {
	switch d {
	case Categories:
		return "categories"
	case Keywords:
		return "keywords"
	}
	return "none"
}

// Op is the kind of filter-state change.
type Op int

const (
	OpNone Op = iota
	OpMove
	OpDelete
)

// Cascade describes the filter-state side effect of a registry mutation.
// The zero value means nothing to do.
type Cascade struct {
	Dimension Dimension
	Op        Op
	From      string // term affected
	To        string // destination term for OpMove
}

// IsZero reports whether the cascade has no effect.
func (c Cascade) IsZero() bool {
	return c.Op == OpNone
}
