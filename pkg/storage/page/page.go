package page

const (
	// PageSize is the size of each page in bytes: a 10-byte leaf header plus
	// 4106 bytes of cell space.
	PageSize = 4116

	// TableMaxPages bounds the page cache. Asking for a page at or beyond this
	// index is a fatal error rather than a cache eviction.
	TableMaxPages = 100
)
