package repository

import (
	"fmt"
	"strings"

	"posts-api/validation"
)

// sortColumns whitelists the public sort fields against their table
// columns so user input never reaches the ORDER BY clause directly.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// searchClauses is the storage-agnostic query plan for one search:
// the filter predicate with its arguments, the ordering, and the
// pagination window. The repository renders it into SQL.
type searchClauses struct {
	where   string
	args    []interface{}
	orderBy string
	limit   int
	offset  int
}

// buildSearchClauses translates a validated SearchPostsInput into the
// three independent clauses. Text matching is a case-insensitive
// "contains" (Postgres ILIKE) over title OR content, with LIKE
// wildcards escaped so the query is matched literally. Ties on the
// sort key break by id ascending to keep pagination deterministic.
func buildSearchClauses(input validation.SearchPostsInput) searchClauses {
	var conditions []string
	var args []interface{}

	if input.Query != "" {
		args = append(args, "%"+escapeLike(input.Query)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", placeholder, placeholder))
	}

	if input.Published != nil {
		args = append(args, *input.Published)
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "DESC"
	if input.Order == "asc" {
		direction = "ASC"
	}
	orderBy := fmt.Sprintf("%s %s, id ASC", sortColumns[input.Sort], direction)

	return searchClauses{
		where:   where,
		args:    args,
		orderBy: orderBy,
		limit:   input.Limit,
		offset:  (input.Page - 1) * input.Limit,
	}
}

// escapeLike neutralizes LIKE pattern metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
