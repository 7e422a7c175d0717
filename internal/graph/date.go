package graph

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/hmans/moviegraph/internal/engine"
	"github.com/hmans/moviegraph/internal/movie"
)

// DateCodec converts the Date scalar. Dates travel as epoch milliseconds.
type DateCodec struct{}

var _ engine.ScalarCodec = DateCodec{}

// ParseValue accepts numbers and strings from request variables. Strings
// may hold a decimal millisecond count or a human date such as 01-25-2019.
func (DateCodec) ParseValue(v any) (any, error) {
	switch v := v.(type) {
	case movie.Date:
		return v, nil
	case int:
		return movie.DateFromMillis(int64(v)), nil
	case int64:
		return movie.DateFromMillis(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("Date cannot represent non-integer value: %v", v)
		}
		return movie.DateFromMillis(int64(v)), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("Date cannot represent value: %s", v)
		}
		return movie.DateFromMillis(n), nil
	case string:
		d, err := movie.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("Date cannot represent value: %w", err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("Date cannot represent value: %v", v)
}

// Serialize emits the millisecond count.
func (DateCodec) Serialize(v any) (any, error) {
	switch v := v.(type) {
	case movie.Date:
		return v.Millis(), nil
	case *movie.Date:
		if v == nil {
			return nil, nil
		}
		return v.Millis(), nil
	}
	return nil, fmt.Errorf("Date cannot serialize %T", v)
}

// ParseLiteral only accepts integer literals. Anything else is null.
func (DateCodec) ParseLiteral(lit engine.Literal) any {
	if lit.Kind != engine.LiteralInt {
		return nil
	}
	d, err := movie.ParseDate(lit.Raw)
	if err != nil {
		return nil
	}
	return d
}
