package query

// ParseProjection validates raw projection fields against the entity kind.
func ParseProjection(kind EntityKind, fields []string) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !ValidField(kind, Field(f)) {
			return nil, NewDetailError(ErrInvalidFilterValue, "project", f, "unknown stat field for this entity")
		}
		out = append(out, Field(f))
	}
	return out, nil
}

// NewRowResult shapes one raw row as a result record keyed by the row id,
// used when a request asks for projection instead of aggregates. A stat that
// is null in the store surfaces as NoData, never as a fabricated zero.
func NewRowResult(r Row, fields []Field) GroupResult {
	values := make(map[string]Value, len(fields))
	for _, f := range fields {
		if v, ok := r.Stats[f]; ok {
			values[string(f)] = NumberValue(v)
		} else {
			values[string(f)] = Value{NoData: true}
		}
	}
	return GroupResult{Key: formatID(r.ID), Values: values, keyNum: r.ID}
}
