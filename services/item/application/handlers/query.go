package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
)

// parseQueryOpts reads paging and sorting parameters from the request:
// `page` (zero-based), `size`, and repeated `sort=field,dir` where dir is
// asc or desc (asc when omitted). Malformed values wrap ErrInvalidItemField
// so they surface as 400; unknown sort fields are rejected later by the
// repository's whitelist.
func parseQueryOpts(r *http.Request) (repositories.QueryOpts, error) {
	var opts repositories.QueryOpts
	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return opts, fmt.Errorf("%w: page must be a non-negative integer", itemdomain.ErrInvalidItemField)
		}
		opts.Page = page
	}

	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return opts, fmt.Errorf("%w: size must be a positive integer", itemdomain.ErrInvalidItemField)
		}
		opts.Size = size
	}

	for _, raw := range query["sort"] {
		key, err := parseSortKey(raw)
		if err != nil {
			return opts, err
		}
		opts.Sort = append(opts.Sort, key)
	}

	return opts, nil
}

func parseSortKey(raw string) (repositories.SortKey, error) {
	field, dir, hasDir := strings.Cut(raw, ",")
	if field == "" {
		return repositories.SortKey{}, fmt.Errorf("%w: sort field must not be empty", itemdomain.ErrInvalidItemField)
	}

	key := repositories.SortKey{Field: field}
	if hasDir {
		switch strings.ToLower(dir) {
		case "asc":
		case "desc":
			key.Desc = true
		default:
			return repositories.SortKey{}, fmt.Errorf("%w: sort direction must be asc or desc, got %q", itemdomain.ErrInvalidItemField, dir)
		}
	}
	return key, nil
}
