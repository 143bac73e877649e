package query

import (
	"sort"
	"strings"
)

// SortSpec orders the result groups. Field is either "group" (the default)
// or the name of a produced value, e.g. "avg_points".
type SortSpec struct {
	Field string
	Desc  bool
}

// ParseSort parses the wire form: a field name with an optional leading "-"
// for descending order. Empty input yields the default key ordering.
func ParseSort(s string) SortSpec {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return SortSpec{Field: s[1:], Desc: true}
	}
	return SortSpec{Field: s}
}

// ValidateSort checks the sort field against the value names a request will
// produce. Called before any persistence access so a bad sort fails fast.
func ValidateSort(spec SortSpec, valueNames []string) error {
	if spec.Field == "" || spec.Field == "group" {
		return nil
	}
	for _, n := range valueNames {
		if spec.Field == n {
			return nil
		}
	}
	return NewDetailError(ErrInvalidFilterValue, "sort", spec.Field, "must be \"group\" or one of the requested values")
}

// SortResults orders groups by the spec, breaking ties by group identity so
// the ordering is total and stable across identical queries. NoData values
// sort after every number regardless of direction.
func SortResults(rs []GroupResult, spec SortSpec) {
	if spec.Field == "" || spec.Field == "group" {
		if spec.Desc {
			sort.Slice(rs, func(i, j int) bool { return keyLess(rs[j], rs[i]) })
		}
		// Results() already ordered ascending by key.
		return
	}
	sort.Slice(rs, func(i, j int) bool {
		vi, vj := rs[i].Values[spec.Field], rs[j].Values[spec.Field]
		switch {
		case vi.NoData && vj.NoData:
			return keyLess(rs[i], rs[j])
		case vi.NoData:
			return false
		case vj.NoData:
			return true
		}
		if c := vi.Num.Cmp(vj.Num); c != 0 {
			if spec.Desc {
				return c > 0
			}
			return c < 0
		}
		return keyLess(rs[i], rs[j])
	})
}

func keyLess(a, b GroupResult) bool {
	if a.keyNum != b.keyNum {
		return a.keyNum < b.keyNum
	}
	return a.Key < b.Key
}
