// Package table renders record collections as searchable, paginated tables.
//
// A View is configured once with typed column descriptors and recomputes its
// page on every Render call from the current data, query and page cursor.
package table

import (
	"fmt"
	"reflect"
	"strconv"
)

// Column describes one table column over records of type T.
type Column[T any] struct {
	Key    string
	Header string
	// Render produces the cell text. Required.
	Render func(T) string
	// Class optionally adds CSS classes to the cell, e.g. a status badge colour.
	Class func(T) string
	// Image optionally yields a thumbnail URL shown before the text.
	Image func(T) string
	// HeaderClass is applied to both the header and every cell in the column.
	HeaderClass string
}

// Field builds a column that renders the value returned by get.
// nil renders as "" and other values use their default formatting.
func Field[T any](key, header string, get func(T) any) Column[T] {
	return Column[T]{
		Key:    key,
		Header: header,
		Render: func(rec T) string { return stringify(get(rec)) },
	}
}

func stringify(v any) string {
	// Typed nil pointers would otherwise print "<nil>" or panic in String.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		if _, ok := v.(fmt.Stringer); !ok {
			return stringify(rv.Elem().Interface())
		}
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Keyed records supply their own row key.
type Keyed interface {
	RecordID() string
}
