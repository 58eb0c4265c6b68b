// Package export writes records to tab-separated files and reads them back.
package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Field is one named value of a record
type Field struct {
	Name  string
	Value interface{}
}

// Record is an ordered list of fields. The order of the first record
// becomes the header when no explicit field names are given.
type Record []Field

// Names returns the field names in order, without duplicates
func (r Record) Names() []string {
	seen := make(map[string]struct{}, len(r))
	names := make([]string, 0, len(r))
	for _, f := range r {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		names = append(names, f.Name)
	}
	return names
}

// Get returns the last value stored under name
func (r Record) Get(name string) (interface{}, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Name == name {
			return r[i].Value, true
		}
	}
	return nil, false
}

// Set replaces the value Get would return, or appends a new field
func (r *Record) Set(name string, value interface{}) {
	for i := len(*r) - 1; i >= 0; i-- {
		if (*r)[i].Name == name {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Name: name, Value: value})
}

// Render converts a field value to its cell text; nil becomes nullMarker
func Render(v interface{}, nullMarker string) string {
	switch x := v.(type) {
	case nil:
		return nullMarker
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(x).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(x).Uint(), 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case jsoniter.RawMessage:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		if b, err := jsonAPI.Marshal(v); err == nil {
			return string(b)
		}
	case reflect.Ptr:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return nullMarker
		}
		return Render(rv.Elem().Interface(), nullMarker)
	}
	return fmt.Sprint(v)
}
