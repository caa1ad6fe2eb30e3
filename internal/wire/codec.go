package wire

import (
	"fmt"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"
)

// record is anything that can be carried as a protobuf message body.
type record interface {
	marshal(e *encoder)
	unmarshal(b []byte) error
}

// decoder walks the fields of one protobuf message. The first failure sticks
// in err and stops iteration.
type decoder struct {
	b   []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func (d *decoder) next() bool {
	if d.err != nil || len(d.b) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(d.b)
	if n < 0 {
		d.fail(n)
		return false
	}
	d.b = d.b[n:]
	d.num, d.typ = num, typ
	return true
}

func (d *decoder) fail(n int) {
	if d.err == nil {
		d.err = protowire.ParseError(n)
	}
}

func (d *decoder) expect(t protowire.Type) bool {
	if d.typ == t {
		return true
	}
	if d.err == nil {
		d.err = fmt.Errorf("field %d: wire type %d, want %d", d.num, d.typ, t)
	}
	return false
}

func (d *decoder) varint() uint64 {
	if !d.expect(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.b)
	if n < 0 {
		d.fail(n)
		return 0
	}
	d.b = d.b[n:]
	return v
}

func (d *decoder) int32() int32 { return int32(d.varint()) }

func (d *decoder) bool() bool { return protowire.DecodeBool(d.varint()) }

func (d *decoder) bytes() []byte {
	if !d.expect(protowire.BytesType) {
		return nil
	}
	v, n := protowire.ConsumeBytes(d.b)
	if n < 0 {
		d.fail(n)
		return nil
	}
	d.b = d.b[n:]
	return v
}

func (d *decoder) string() string { return string(d.bytes()) }

func (d *decoder) message(r record) {
	b := d.bytes()
	if d.err != nil {
		return
	}
	if err := r.unmarshal(b); err != nil {
		d.err = fmt.Errorf("field %d: %w", d.num, err)
	}
}

// int32s accepts both packed and unpacked encodings of a repeated int32.
func (d *decoder) int32s(dst []int32) []int32 {
	if d.typ == protowire.VarintType {
		return append(dst, d.int32())
	}
	b := d.bytes()
	for len(b) > 0 && d.err == nil {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			d.fail(n)
			break
		}
		dst = append(dst, int32(v))
		b = b[n:]
	}
	return dst
}

// entry decodes one map<string, int32> entry.
func (d *decoder) entry() (string, int32) {
	sub := decoder{b: d.bytes()}
	if d.err != nil {
		return "", 0
	}
	var (
		key string
		val int32
	)
	for sub.next() {
		switch sub.num {
		case 1:
			key = sub.string()
		case 2:
			val = sub.int32()
		default:
			sub.skip()
		}
	}
	if sub.err != nil {
		d.err = fmt.Errorf("field %d: %w", d.num, sub.err)
	}
	return key, val
}

func (d *decoder) skip() {
	n := protowire.ConsumeFieldValue(d.num, d.typ, d.b)
	if n < 0 {
		d.fail(n)
		return
	}
	d.b = d.b[n:]
}

// encoder appends proto3 fields; zero scalars are omitted.
type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) int32(num protowire.Number, v int32) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(v))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, protowire.EncodeBool(v))
}

// message always emits the field, even for an empty record, so presence
// survives a round trip.
func (e *encoder) message(num protowire.Number, r record) {
	var sub encoder
	r.marshal(&sub)
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, sub.b)
}

func (e *encoder) int32s(num protowire.Number, vs []int32) {
	if len(vs) == 0 {
		return
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, packed)
}

func (e *encoder) strings(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendString(e.b, v)
	}
}

func (e *encoder) stringInt32Map(num protowire.Number, m map[string]int32) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var entry encoder
		entry.string(1, k)
		entry.int32(2, m[k])
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendBytes(e.b, entry.b)
	}
}
