package api

// NoteListResponse wraps paginated page listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"notes/calculus/multivariable_calculus/limits.qmd" validate:"required"`
	Title   string `json:"title" example:"Limits" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// OutlineNote is one page entry in the site outline.
type OutlineNote struct {
	Path  string `json:"path" example:"notes/calculus/multivariable_calculus/limits.qmd" validate:"required"`
	Title string `json:"title" example:"Limits" validate:"required"`
	Date  string `json:"date,omitempty" example:"2024-03-01"`
}

// OutlineCourse groups the pages of one class.
type OutlineCourse struct {
	Name  string        `json:"name" example:"multivariable_calculus" validate:"required"`
	Notes []OutlineNote `json:"notes" validate:"required"`
}

// OutlineTopic groups the courses of one subject area.
type OutlineTopic struct {
	Name    string          `json:"name" example:"calculus" validate:"required"`
	Courses []OutlineCourse `json:"courses" validate:"required"`
}

// OutlineResponse wraps the site outline.
type OutlineResponse struct {
	Topics []OutlineTopic `json:"topics" validate:"required"`
}
