package database

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Row is one result row keyed by column name. Accessors convert the driver's
// native values and return the zero value for NULL or missing columns.
type Row map[string]any

// Has checks if the column is present and not NULL
func (r Row) Has(column string) bool {
	v, ok := r[column]
	return ok && v != nil
}

// Int returns the column as int
func (r Row) Int(column string) int {
	v, _ := toInt(r[column])
	return v
}

// NullableInt returns the column as *int, nil for NULL
func (r Row) NullableInt(column string) *int {
	v, ok := toInt(r[column])
	if !ok {
		return nil
	}
	return &v
}

// Float returns the column as float64
func (r Row) Float(column string) float64 {
	v, _ := toFloat(r[column])
	return v
}

// String returns the column as string
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// NullableString returns the column as *string, nil for NULL
func (r Row) NullableString(column string) *string {
	if !r.Has(column) {
		return nil
	}
	s := r.String(column)
	return &s
}

// Bool returns the column as bool
func (r Row) Bool(column string) bool {
	switch v := r[column].(type) {
	case bool:
		return v
	case pgtype.Bool:
		return v.Valid && v.Bool
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Time returns the column as time.Time
func (r Row) Time(column string) time.Time {
	switch v := r[column].(type) {
	case time.Time:
		return v
	case pgtype.Date:
		if v.Valid {
			return v.Time
		}
	case pgtype.Timestamp:
		if v.Valid {
			return v.Time
		}
	case pgtype.Timestamptz:
		if v.Valid {
			return v.Time
		}
	}
	return time.Time{}
}

// JSON returns the column as raw JSON. Text columns are passed through unparsed;
// values the driver already decoded are re-encoded.
func (r Row) JSON(column string) (json.RawMessage, error) {
	switch v := r[column].(type) {
	case nil:
		return nil, nil
	case string:
		return json.RawMessage(v), nil
	case []byte:
		return json.RawMessage(v), nil
	case json.RawMessage:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %s: %w", column, err)
		}
		return data, nil
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case float32:
		return int(math.Round(float64(v))), true
	case float64:
		return int(math.Round(v)), true
	case pgtype.Numeric:
		f, ok := numericToFloat(v)
		return int(math.Round(f)), ok
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case pgtype.Numeric:
		return numericToFloat(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		i, ok := toInt(v)
		return float64(i), ok
	}
}

func numericToFloat(n pgtype.Numeric) (float64, bool) {
	if !n.Valid {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0, false
	}
	return f.Float64, true
}
