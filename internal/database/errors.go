package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// failure. A non-empty constraint name narrows the match.
func IsUniqueViolation(err error, constraint ...string) bool {
	return hasCode(err, uniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// constraint failure.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation, nil)
}

func hasCode(err error, code string, constraint []string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pqErr.Constraint == c {
			return true
		}
	}
	return false
}
