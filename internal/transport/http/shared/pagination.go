package shared

import (
	"net/http"
	"strconv"
	"strings"
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePagination reads limit and offset from the query string. A limit
// above maxLimit is clamped; anything that is not a non-negative integer
// (or a zero limit) is recorded on v and the defaults are kept.
func ParsePagination(r *http.Request, v *Validator, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = n
		}
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.Add("offset", "must be a non-negative integer")
		} else {
			page.Offset = n
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
