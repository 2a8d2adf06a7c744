package pagination

// Meta describes where a returned slice sits in the full result set.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta derives page metadata for params over total items. Offset-mode
// params are described as pages of Limit rows; with neither a page size nor
// a limit the whole set is one page.
func NewMeta(params Params, total int) Meta {
	size := params.PageSize
	if size == 0 {
		size = params.Limit
	}
	if size == 0 {
		size = total
	}

	page := max(params.Page, 1)
	if params.Page == 0 && size > 0 {
		page = params.Offset/size + 1
	}

	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}

	return Meta{
		CurrentPage: page,
		PageSize:    size,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: page > 1,
		HasNext:     page < pages,
	}
}
