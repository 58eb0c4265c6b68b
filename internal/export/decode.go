package export

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// DecodeRecords reads a JSON array of objects, or a stream of objects, keeping key order.
// Nested arrays and objects are kept as raw JSON. Empty input yields no records.
func DecodeRecords(r io.Reader) ([]Record, error) {
	iter := jsoniter.Parse(jsonAPI, r, 4096)

	var records []Record
	switch iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		ok := iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			rec, ok := readRecord(it)
			if ok {
				records = append(records, rec)
			}
			return ok
		})
		if !ok {
			return nil, decodeError(iter.Error)
		}
	case jsoniter.ObjectValue:
		for iter.WhatIsNext() == jsoniter.ObjectValue {
			rec, ok := readRecord(iter)
			if !ok {
				return nil, decodeError(iter.Error)
			}
			records = append(records, rec)
		}
	case jsoniter.InvalidValue:
		if iter.Error == nil {
			return nil, decodeError(errors.New("invalid JSON"))
		}
		if iter.Error == io.EOF {
			return nil, nil
		}
		return nil, decodeError(iter.Error)
	default:
		return nil, decodeError(errors.New("expected an array or object"))
	}

	if iter.Error != nil && iter.Error != io.EOF {
		return nil, decodeError(iter.Error)
	}
	// only whitespace may follow the records
	if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error != io.EOF {
		return nil, decodeError(errors.New("unexpected data after records"))
	}
	return records, nil
}

func decodeError(err error) error {
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("failed to decode records: %w", err)
}

func readRecord(it *jsoniter.Iterator) (Record, bool) {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		it.ReportError("readRecord", "expected object")
		return nil, false
	}
	rec := Record{}
	ok := it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		rec = append(rec, Field{Name: key, Value: readValue(it)})
		return it.Error == nil
	})
	return rec, ok && it.Error == nil
}

func readValue(it *jsoniter.Iterator) interface{} {
	switch it.WhatIsNext() {
	case jsoniter.NilValue:
		it.ReadNil()
		return nil
	case jsoniter.StringValue:
		return it.ReadString()
	case jsoniter.NumberValue:
		return it.ReadNumber()
	case jsoniter.BoolValue:
		return it.ReadBool()
	default:
		return jsoniter.RawMessage(it.SkipAndReturnBytes())
	}
}
