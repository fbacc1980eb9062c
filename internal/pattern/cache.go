package pattern

// Cache memoizes compiled patterns by raw keyword. Each regex failure is
// reported to OnWarning once, the first time the keyword is compiled.
// A Cache is not safe for concurrent use.
type Cache struct {
	OnWarning func(err *RegexError)

	compiled map[string]Pattern
}

// NewCache returns an empty cache reporting warnings to onWarning, which may
// be nil.
func NewCache(onWarning func(err *RegexError)) *Cache {
	return &Cache{OnWarning: onWarning, compiled: map[string]Pattern{}}
}

// Get returns the compiled pattern for raw.
func (c *Cache) Get(raw string) Pattern {
	if c.compiled == nil {
		c.compiled = map[string]Pattern{}
	}
	if p, ok := c.compiled[raw]; ok {
		return p
	}
	p, err := Compile(raw)
	if err != nil && c.OnWarning != nil {
		c.OnWarning(err.(*RegexError))
	}
	c.compiled[raw] = p
	return p
}

// Len returns the number of memoized patterns.
func (c *Cache) Len() int {
	return len(c.compiled)
}
