package dto

// Outcome is the {success, message} envelope answered by mutating endpoints and errors.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

func Succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

func Failed(code, message string) Outcome {
	return Outcome{Success: false, Code: code, Message: message}
}

// Pagination is embedded in every paginated response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(total / pageSize).
func NewPagination(total int64, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total / int64(pageSize))
		if total%int64(pageSize) != 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// NormalizePage clamps page to at least 1 and pageSize to [1, max],
// substituting def for a non-positive size.
func NormalizePage(page, pageSize, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = def
	}
	if pageSize > max {
		pageSize = max
	}
	return page, pageSize
}
