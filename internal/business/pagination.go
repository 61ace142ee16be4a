package business

// Pagination is the metadata block accompanying a result page.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPreviousPage"`
}

// Offset converts page/limit into the row offset for the page query.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination derives page counts and navigation flags from the total row
// count. A page past the end is legal: it yields an empty row page with
// HasNextPage false rather than an error, so pagination stays idempotent
// when rows are inserted or deleted between the count and page queries.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
