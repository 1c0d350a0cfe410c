package services

import (
	"strings"

	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// List is one page of results plus the total number of matching rows.
type List[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

type Page struct {
	Limit  int
	Offset int
}

func (p Page) scope(tx *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return tx.Limit(limit).Offset(offset)
}

// orderBy parses a comma separated ordering such as "-priority,title".
// Unknown fields are ignored; when nothing usable is left the fallback
// clauses apply.
func orderBy(raw string, columns map[string]string, fallback ...string) func(*gorm.DB) *gorm.DB {
	var clauses []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		column, ok := columns[strings.TrimPrefix(field, "-")]
		if !ok {
			continue
		}
		if desc {
			column += " DESC"
		}
		clauses = append(clauses, column)
	}
	if len(clauses) == 0 {
		clauses = fallback
	}
	return func(tx *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			tx = tx.Order(c)
		}
		return tx
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// search matches term case-insensitively against any of columns. LIKE
// wildcards in term match literally.
func search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(tx *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return tx
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}
