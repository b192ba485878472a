package models

// GroupFilter represents filter parameters for querying groups
type GroupFilter struct {
	From      string `form:"from"`      // YYYY-MM-DD, inclusive
	To        string `form:"to"`        // YYYY-MM-DD, inclusive
	Category  string `form:"category"`  // Run, Bike, Hike, ...
	AthleteID int64  `form:"athleteId"` // groups this athlete joined
	MinSize   int    `form:"minSize"`   // minimum athlete count
	Country   string `form:"country"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// ActivityFilter represents filter parameters for querying activities
type ActivityFilter struct {
	AthleteID int64  `form:"athleteId"`
	SportType string `form:"sportType"`
	From      string `form:"from"` // YYYY-MM-DD, inclusive
	To        string `form:"to"`   // YYYY-MM-DD, inclusive
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// normalizePage clamps pagination to sane values
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}

// Pagination returns the clamped page, page size and row offset
func (f GroupFilter) Pagination() (page, pageSize, offset int) {
	page, pageSize = normalizePage(f.Page, f.PageSize)
	return page, pageSize, (page - 1) * pageSize
}

// Pagination returns the clamped page, page size and row offset
func (f ActivityFilter) Pagination() (page, pageSize, offset int) {
	page, pageSize = normalizePage(f.Page, f.PageSize)
	return page, pageSize, (page - 1) * pageSize
}

// TotalPages computes the number of pages for a result count
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
