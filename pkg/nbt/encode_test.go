package nbt

import (
	"bytes"
	"encoding/binary"
	"math"
)

// docBuilder writes wire-format documents for tests.
type docBuilder struct {
	bytes.Buffer
}

func (b *docBuilder) header(t Type, name string) *docBuilder {
	b.WriteByte(byte(t))
	if t != TypeEnd {
		b.str(name)
	}
	return b
}

func (b *docBuilder) str(s string) *docBuilder {
	_ = binary.Write(&b.Buffer, binary.BigEndian, uint16(len(s)))
	b.WriteString(s)
	return b
}

func (b *docBuilder) u8(v uint8) *docBuilder {
	b.WriteByte(v)
	return b
}

func (b *docBuilder) i16(v int16) *docBuilder {
	_ = binary.Write(&b.Buffer, binary.BigEndian, v)
	return b
}

func (b *docBuilder) i32(v int32) *docBuilder {
	_ = binary.Write(&b.Buffer, binary.BigEndian, v)
	return b
}

func (b *docBuilder) i64(v int64) *docBuilder {
	_ = binary.Write(&b.Buffer, binary.BigEndian, v)
	return b
}

func (b *docBuilder) f32(v float32) *docBuilder {
	return b.i32(int32(math.Float32bits(v)))
}

func (b *docBuilder) f64(v float64) *docBuilder {
	return b.i64(int64(math.Float64bits(v)))
}

func (b *docBuilder) end() *docBuilder {
	return b.u8(byte(TypeEnd))
}

// inhabitedFixture is a root compound holding one long InhabitedTime=42.
func inhabitedFixture() []byte {
	var b docBuilder
	b.header(TypeCompound, "")
	b.header(TypeLong, "InhabitedTime").i64(42)
	b.end()
	return b.Bytes()
}
