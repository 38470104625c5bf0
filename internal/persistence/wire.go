// File: internal/persistence/wire.go
// Project: UNIVERSE
// Description: Minimal hand-rolled protobuf wire-format helpers built on
//              google.golang.org/protobuf/encoding/protowire. protoc cannot
//              be run in this environment, so there is no generated
//              pb.go; protowire is the legitimate low-level package for
//              producing a genuine, versionable protobuf byte stream
//              without code generation (see DESIGN.md).
package persistence

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

func protowireNumber(n int) protowire.Number { return protowire.Number(n) }

func putVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func putBool(b []byte, num protowire.Number, v bool) []byte {
	var u uint64
	if v {
		u = 1
	}
	return putVarint(b, num, u)
}

func putInt64(b []byte, num protowire.Number, v int64) []byte {
	return putVarint(b, num, uint64(v))
}

func putInt(b []byte, num protowire.Number, v int) []byte {
	return putInt64(b, num, int64(v))
}

func putFixed64(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}

func putFloat64(b []byte, num protowire.Number, f float64) []byte {
	return putFixed64(b, num, math.Float64bits(f))
}

func putString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func putBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// putMessage writes a nested message under a length-delimited field.
func putMessage(b []byte, num protowire.Number, msg []byte) []byte {
	return putBytes(b, num, msg)
}

// field is one decoded wire-format field: its field number, wire type, and
// the raw slice holding its value (for Varint/Fixed64, the decoded value
// pre-parsed into raw; for Bytes, the payload with length stripped).
type field struct {
	num   protowire.Number
	typ   protowire.Type
	u64   uint64
	bytes []byte
}

// eachField walks a flat sequence of tagged fields, invoking fn for each.
// Used as the single decode-side primitive for every message in this
// package, mirroring the single encode-side primitives above.
func eachField(data []byte, fn func(f field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("persistence: malformed tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		var f field
		f.num, f.typ = num, typ

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("persistence: malformed varint: %w", protowire.ParseError(n))
			}
			f.u64 = v
			data = data[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return fmt.Errorf("persistence: malformed fixed64: %w", protowire.ParseError(n))
			}
			f.u64 = v
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("persistence: malformed bytes: %w", protowire.ParseError(n))
			}
			f.bytes = v
			data = data[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return fmt.Errorf("persistence: malformed fixed32: %w", protowire.ParseError(n))
			}
			f.u64 = uint64(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("persistence: malformed field: %w", protowire.ParseError(n))
			}
			data = data[n:]
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) asFloat64() float64 { return math.Float64frombits(f.u64) }
func (f field) asInt64() int64     { return int64(f.u64) }
func (f field) asInt() int         { return int(int64(f.u64)) }
func (f field) asBool() bool       { return f.u64 != 0 }
func (f field) asString() string   { return string(f.bytes) }
