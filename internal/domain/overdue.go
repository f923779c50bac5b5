package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Overdue query parameter defaults and bounds.
const (
	DefaultOverdueDays   = 0
	DefaultOverdueLimit  = 10
	DefaultOverdueOffset = 0
	MinOverdueLimit      = 1
	MaxOverdueLimit      = 100
)

// nonNegativeIntPattern matches the raw string form accepted for the
// days/limit/offset query parameters before numeric conversion.
var nonNegativeIntPattern = regexp.MustCompile(`^\d+$`)

// FieldError describes a single invalid query parameter.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every invalid overdue query parameter at once,
// not just the first one encountered.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return "invalid query parameter: " + strings.Join(msgs, "; ")
}

// Detail returns the client-facing message for a 400 response.
func (e *ValidationError) Detail() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return "Invalid query parameter: " + strings.Join(msgs, "; ")
}

// OverdueQuery is the validated form of the overdue endpoint's query
// parameters. It is constructed fresh per request by ParseOverdueQuery and
// never mutated afterwards.
type OverdueQuery struct {
	Days   int
	Limit  int
	Offset int
}

// OverdueTask pairs a task with the number of full 24-hour periods it is
// past due at evaluation time.
type OverdueTask struct {
	Task        *Task
	DaysOverdue int
}

// OverdueResult is the paginated response envelope for an overdue query.
// Tasks preserve the store's ordering (due date ascending, ties by id).
type OverdueResult struct {
	Tasks   []OverdueTask
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// ParseOverdueQuery validates and normalizes the three raw query parameters
// for the overdue endpoint. Empty strings take the documented defaults
// (days=0, limit=10, offset=0). A present-but-invalid value never falls back
// to its default: validation fails as a unit, and the returned
// *ValidationError carries a message for every offending field.
func ParseOverdueQuery(daysRaw, limitRaw, offsetRaw string) (OverdueQuery, error) {
	q := OverdueQuery{
		Days:   DefaultOverdueDays,
		Limit:  DefaultOverdueLimit,
		Offset: DefaultOverdueOffset,
	}

	var fields []FieldError

	if daysRaw != "" {
		days, ok := parseNonNegativeInt(daysRaw)
		if !ok {
			fields = append(fields, FieldError{
				Field:   "days",
				Message: "must be a non-negative integer",
			})
		} else {
			q.Days = days
		}
	}

	if limitRaw != "" {
		limit, ok := parseNonNegativeInt(limitRaw)
		switch {
		case !ok:
			fields = append(fields, FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("must be an integer between %d and %d", MinOverdueLimit, MaxOverdueLimit),
			})
		case limit < MinOverdueLimit || limit > MaxOverdueLimit:
			fields = append(fields, FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("must be between %d and %d", MinOverdueLimit, MaxOverdueLimit),
			})
		default:
			q.Limit = limit
		}
	}

	if offsetRaw != "" {
		offset, ok := parseNonNegativeInt(offsetRaw)
		if !ok {
			fields = append(fields, FieldError{
				Field:   "offset",
				Message: "must be a non-negative integer",
			})
		} else {
			q.Offset = offset
		}
	}

	if len(fields) > 0 {
		return OverdueQuery{}, &ValidationError{Fields: fields}
	}

	return q, nil
}

// parseNonNegativeInt converts a raw query value to an int, accepting only
// strings made entirely of ASCII digits. This rejects signs, whitespace, and
// decimal points up front, so "-1" and "1.5" fail the pattern rather than
// slipping through strconv.
func parseNonNegativeInt(raw string) (int, bool) {
	if !nonNegativeIntPattern.MatchString(raw) {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OverdueCutoff computes the instant against which due dates are compared.
// For days > 0 the cutoff is exactly days*24h before now; no calendar or
// timezone adjustment is applied. For days = 0 the cutoff is now itself.
func OverdueCutoff(now time.Time, days int) time.Time {
	if days <= 0 {
		return now
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// DaysOverdue computes floor((now - dueDate) / 24h), clamped to a minimum of
// zero so a task whose due date is in the future at evaluation time never
// reports negative days.
func DaysOverdue(dueDate, now time.Time) int {
	diff := now.Sub(dueDate)
	if diff < 0 {
		return 0
	}
	return int(diff / (24 * time.Hour))
}
