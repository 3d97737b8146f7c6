package domain

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 1_000_000
)

// Page is one slice of a paginated query together with the criteria that produced it.
type Page[T, C any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Criteria   C   `json:"criteria"`
	Results    []T `json:"results"`
}

// Normalize clamps a 1-based page number and page size into range.
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// TotalPages rounds total/perPage up; an empty result set still has one page.
func TotalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// MapPage converts the results of a page while keeping its metadata.
func MapPage[T, U, C any](p Page[T, C], fn func(T) U) Page[U, C] {
	out := make([]U, len(p.Results))
	for i, r := range p.Results {
		out[i] = fn(r)
	}
	return Page[U, C]{Page: p.Page, TotalPages: p.TotalPages, Criteria: p.Criteria, Results: out}
}
