// Package semester implements the academic calendar used for course offerings.
// Spring runs January through May, Summer June through July and Fall August through December.
package semester

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

// Semester is a term in a given year
type Semester struct {
	Term models.Term
	Year int
}

var termOrder = map[models.Term]int{
	models.TermSpring: 0,
	models.TermSummer: 1,
	models.TermFall:   2,
}

var orderedTerms = []models.Term{models.TermSpring, models.TermSummer, models.TermFall}

// New validates and builds a semester
func New(term models.Term, year int) (Semester, error) {
	if _, ok := termOrder[term]; !ok {
		return Semester{}, fmt.Errorf("%w: unknown term %q", apperrors.ErrInvalidSemester, term)
	}
	if year < 1 {
		return Semester{}, fmt.Errorf("%w: year %d", apperrors.ErrInvalidSemester, year)
	}
	return Semester{Term: term, Year: year}, nil
}

// FromDate returns the semester containing t
func FromDate(t time.Time) Semester {
	switch m := t.Month(); {
	case m <= time.May:
		return Semester{Term: models.TermSpring, Year: t.Year()}
	case m <= time.July:
		return Semester{Term: models.TermSummer, Year: t.Year()}
	default:
		return Semester{Term: models.TermFall, Year: t.Year()}
	}
}

// ParseTerm accepts "fall", "Fall" or "FALL"
func ParseTerm(s string) (models.Term, error) {
	t := models.Term(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := termOrder[t]; !ok {
		return "", fmt.Errorf("%w: unknown term %q", apperrors.ErrInvalidSemester, s)
	}
	return t, nil
}

// Parse reads strings like "Fall 2024" or "SPRING 2025"
func Parse(s string) (Semester, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Semester{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidSemester, s)
	}
	term, err := ParseTerm(parts[0])
	if err != nil {
		return Semester{}, err
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Semester{}, fmt.Errorf("%w: year %q", apperrors.ErrInvalidSemester, parts[1])
	}
	return New(term, year)
}

// String renders "Fall 2024"
func (s Semester) String() string {
	name := strings.ToLower(string(s.Term))
	if name == "" {
		return strconv.Itoa(s.Year)
	}
	return strings.ToUpper(name[:1]) + name[1:] + " " + strconv.Itoa(s.Year)
}

// Next returns the following semester
func (s Semester) Next() Semester {
	i := termOrder[s.Term] + 1
	if i == len(orderedTerms) {
		return Semester{Term: orderedTerms[0], Year: s.Year + 1}
	}
	return Semester{Term: orderedTerms[i], Year: s.Year}
}

// Previous returns the preceding semester
func (s Semester) Previous() Semester {
	i := termOrder[s.Term] - 1
	if i < 0 {
		return Semester{Term: orderedTerms[len(orderedTerms)-1], Year: s.Year - 1}
	}
	return Semester{Term: orderedTerms[i], Year: s.Year}
}

// Compare returns -1, 0 or 1 as s is before, equal to or after o
func (s Semester) Compare(o Semester) int {
	switch {
	case s.Year < o.Year:
		return -1
	case s.Year > o.Year:
		return 1
	}
	a, b := termOrder[s.Term], termOrder[o.Term]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether s comes strictly before o
func (s Semester) Before(o Semester) bool {
	return s.Compare(o) < 0
}

// StartDate is the first day of the semester in loc
func (s Semester) StartDate(loc *time.Location) time.Time {
	var month time.Month
	switch s.Term {
	case models.TermSpring:
		month = time.January
	case models.TermSummer:
		month = time.June
	default:
		month = time.August
	}
	return time.Date(s.Year, month, 1, 0, 0, 0, 0, loc)
}

// EndDate is the last day of the semester in loc
func (s Semester) EndDate(loc *time.Location) time.Time {
	return s.Next().StartDate(loc).AddDate(0, 0, -1)
}

// Contains reports whether t falls within the semester
func (s Semester) Contains(t time.Time) bool {
	return FromDate(t) == s
}
