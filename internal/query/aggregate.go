package query

import (
	"sort"
	"strings"
)

// AggOp is one of the supported aggregate operations.
type AggOp string

const (
	AggAvg   AggOp = "avg"
	AggMin   AggOp = "min"
	AggMax   AggOp = "max"
	AggSum   AggOp = "sum"
	AggCount AggOp = "count"
)

// AggregateSpec requests one computed value: an operation over a stat field.
// Count may omit the field, in which case it counts rows in the group.
type AggregateSpec struct {
	Op    AggOp
	Field Field
}

// ParseAggregateSpec parses the wire form "op:field" (or bare "count") and
// validates the field against the entity kind.
func ParseAggregateSpec(kind EntityKind, s string) (AggregateSpec, error) {
	op, field, hasField := strings.Cut(strings.TrimSpace(s), ":")
	switch AggOp(op) {
	case AggAvg, AggMin, AggMax, AggSum, AggCount:
	default:
		return AggregateSpec{}, NewDetailError(ErrInvalidFilterValue, "aggregate", s, "operation must be one of avg, min, max, sum, count")
	}
	if !hasField || field == "" {
		if AggOp(op) == AggCount {
			return AggregateSpec{Op: AggCount}, nil
		}
		return AggregateSpec{}, NewDetailError(ErrInvalidFilterValue, "aggregate", s, "missing field, expected op:field")
	}
	if !ValidField(kind, Field(field)) {
		return AggregateSpec{}, NewDetailError(ErrInvalidFilterValue, "aggregate", s, "unknown stat field for this entity")
	}
	return AggregateSpec{Op: AggOp(op), Field: Field(field)}, nil
}

// Name is the key the computed value is returned under, e.g. "avg_points".
func (a AggregateSpec) Name() string {
	if a.Field == "" {
		return string(a.Op)
	}
	return string(a.Op) + "_" + string(a.Field)
}

// Value is a computed aggregate: either a number or NoData. NoData marks
// avg/min/max over an empty group and marshals as JSON null; it is never a
// fabricated zero.
type Value struct {
	NoData bool
	Num    Decimal
}

// NumberValue wraps a decimal in a present Value.
func NumberValue(d Decimal) Value { return Value{Num: d} }

func (v Value) MarshalJSON() ([]byte, error) {
	if v.NoData {
		return []byte("null"), nil
	}
	return v.Num.MarshalJSON()
}

// GroupResult is one ordered element of a query response.
type GroupResult struct {
	Key    string           `json:"group_key"`
	Values map[string]Value `json:"values"`

	keyNum int64 // numeric id for deterministic ordering of id-shaped keys
}

// fieldAcc accumulates a single field's running aggregates within one group.
type fieldAcc struct {
	n   int64
	sum Decimal
	min Decimal
	max Decimal
}

func (a *fieldAcc) add(v Decimal) {
	if a.n == 0 {
		a.min, a.max = v, v
	} else {
		if v.Cmp(a.min) < 0 {
			a.min = v
		}
		if v.Cmp(a.max) > 0 {
			a.max = v
		}
	}
	a.n++
	a.sum = a.sum.Add(v)
}

type group struct {
	key    string
	keyNum int64
	rows   int64
	fields map[Field]*fieldAcc
}

// Engine reduces a filtered row stream into per-group aggregate records.
// It holds only per-group accumulators, never the rows themselves, so a lazy
// row source keeps memory proportional to the number of groups.
type Engine struct {
	specs     []AggregateSpec
	groupBy   GroupKey // empty means one overall group
	maxGroups int
	groups    map[string]*group
}

// NewEngine builds an engine for validated specs. maxGroups bounds the number
// of distinct groups; exceeding it aborts the stream with ErrResultTooLarge.
func NewEngine(specs []AggregateSpec, groupBy GroupKey, maxGroups int) *Engine {
	return &Engine{
		specs:     specs,
		groupBy:   groupBy,
		maxGroups: maxGroups,
		groups:    make(map[string]*group),
	}
}

// Add merges one row into its group's accumulators.
func (e *Engine) Add(r Row) error {
	var label string
	var num int64
	if e.groupBy != "" {
		label, num = e.groupBy.keyOf(r)
	}
	g, ok := e.groups[label]
	if !ok {
		if len(e.groups) >= e.maxGroups {
			return NewDetailError(ErrResultTooLarge, "group_by", string(e.groupBy), "group count exceeds the configured maximum; narrow the filters")
		}
		g = &group{key: label, keyNum: num, fields: make(map[Field]*fieldAcc)}
		e.groups[label] = g
	}
	g.rows++
	for _, spec := range e.specs {
		if spec.Field == "" {
			continue // bare count uses the row counter
		}
		v, ok := r.Stats[spec.Field]
		if !ok {
			continue // null stat contributes nothing
		}
		acc, ok := g.fields[spec.Field]
		if !ok {
			acc = &fieldAcc{}
			g.fields[spec.Field] = acc
		}
		acc.add(v)
	}
	return nil
}

// Results materializes the group records, ordered by group key. For an
// ungrouped query a single record is always produced, even over zero rows,
// so sum/count come back 0 and avg/min/max come back NoData.
func (e *Engine) Results() []GroupResult {
	if e.groupBy == "" && len(e.groups) == 0 {
		e.groups[""] = &group{fields: make(map[Field]*fieldAcc)}
	}

	out := make([]GroupResult, 0, len(e.groups))
	for _, g := range e.groups {
		values := make(map[string]Value, len(e.specs))
		for _, spec := range e.specs {
			values[spec.Name()] = computeValue(spec, g)
		}
		out = append(out, GroupResult{Key: g.key, Values: values, keyNum: g.keyNum})
	}
	sortByKey(out)
	return out
}

func computeValue(spec AggregateSpec, g *group) Value {
	if spec.Op == AggCount && spec.Field == "" {
		return NumberValue(DecimalFromInt(g.rows))
	}
	acc := g.fields[spec.Field]
	switch spec.Op {
	case AggCount:
		if acc == nil {
			return NumberValue(DecimalFromInt(0))
		}
		return NumberValue(DecimalFromInt(acc.n))
	case AggSum:
		if acc == nil {
			return NumberValue(DecimalFromInt(0))
		}
		return NumberValue(acc.sum)
	case AggAvg:
		if acc == nil || acc.n == 0 {
			return Value{NoData: true}
		}
		return NumberValue(acc.sum.DivRound(acc.n))
	case AggMin:
		if acc == nil || acc.n == 0 {
			return Value{NoData: true}
		}
		return NumberValue(acc.min)
	case AggMax:
		if acc == nil || acc.n == 0 {
			return Value{NoData: true}
		}
		return NumberValue(acc.max)
	default:
		return Value{NoData: true}
	}
}

func sortByKey(rs []GroupResult) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].keyNum != rs[j].keyNum {
			return rs[i].keyNum < rs[j].keyNum
		}
		return rs[i].Key < rs[j].Key
	})
}
