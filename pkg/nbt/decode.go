package nbt

import (
	"fmt"
	"io"
)

// Decode reads one complete node (header and payload) from rd, recursing
// into lists and compounds.
func Decode(rd io.Reader) (Node, error) {
	return decodeNode(newReader(rd, 0))
}

// DecodeBytes decodes the node at the start of b. Trailing bytes are ignored.
func DecodeBytes(b []byte) (Node, error) {
	return decodeNode(newBytesReader(b))
}

func decodeNode(r *reader) (Node, error) {
	id, err := r.readU8()
	if err != nil {
		return Node{}, err
	}
	t := Type(id)
	if t == TypeEnd {
		return Node{Type: TypeEnd}, nil
	}
	name, err := r.readString()
	if err != nil {
		return Node{}, fmt.Errorf("read %s name: %w", t, err)
	}
	v, err := readPayload(r, t)
	if err != nil {
		if name != "" {
			return Node{}, fmt.Errorf("%s %q: %w", t, name, err)
		}
		return Node{}, err
	}
	return Node{Type: t, Name: name, Value: v}, nil
}

func readPayload(r *reader, t Type) (any, error) {
	switch t {
	case TypeEnd:
		return nil, nil
	case TypeByte:
		return r.readI8()
	case TypeShort:
		return r.readI16()
	case TypeInt:
		return r.readI32()
	case TypeLong:
		return r.readI64()
	case TypeFloat:
		return r.readF32()
	case TypeDouble:
		return r.readF64()
	case TypeString:
		return r.readString()
	case TypeByteArray:
		n, err := r.readCount(1)
		if err != nil {
			return nil, err
		}
		raw, err := r.readN(n)
		if err != nil {
			return nil, err
		}
		out := make([]int8, n)
		for i, b := range raw {
			out[i] = int8(b)
		}
		return out, nil
	case TypeIntArray:
		n, err := r.readCount(4)
		if err != nil {
			return nil, err
		}
		out := make([]int32, 0, capHint(r, n, 4))
		for range n {
			v, err := r.readI32()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TypeLongArray:
		n, err := r.readCount(8)
		if err != nil {
			return nil, err
		}
		out := make([]int64, 0, capHint(r, n, 8))
		for range n {
			v, err := r.readI64()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TypeList:
		return readList(r)
	case TypeCompound:
		return readCompound(r)
	default:
		return nil, fmt.Errorf("%w %d at offset %d", ErrUnknownTagType, uint8(t), r.off)
	}
}

func readList(r *reader) (List, error) {
	if err := r.enter(); err != nil {
		return List{}, err
	}
	defer r.leave()

	id, err := r.readU8()
	if err != nil {
		return List{}, err
	}
	elem := Type(id)
	n, err := r.readCount(minPayloadSize(elem))
	if err != nil {
		return List{}, err
	}
	// End elements carry no payload, so a list of them can hold nothing.
	if elem == TypeEnd {
		return List{ElemType: elem}, nil
	}
	items := make([]Node, 0, capHint(r, n, minPayloadSize(elem)))
	for i := range n {
		v, err := readPayload(r, elem)
		if err != nil {
			return List{}, fmt.Errorf("list element %d: %w", i, err)
		}
		items = append(items, Node{Type: elem, Value: v})
	}
	return List{ElemType: elem, Items: items}, nil
}

func readCompound(r *reader) (Compound, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()

	var children Compound
	for {
		child, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		if child.Type == TypeEnd {
			break
		}
		children = append(children, child)
	}
	if children == nil {
		children = Compound{}
	}
	return children, nil
}

// minPayloadSize is the smallest encoding of a payload of type t.
func minPayloadSize(t Type) int {
	switch t {
	case TypeByte:
		return 1
	case TypeShort, TypeString:
		return 2
	case TypeInt, TypeFloat, TypeByteArray, TypeIntArray, TypeLongArray:
		return 4
	case TypeLong, TypeDouble:
		return 8
	case TypeList:
		return 5
	case TypeCompound:
		return 1
	default:
		return 0
	}
}

// capHint sizes a slice for n elements without trusting n beyond what the
// input can hold.
func capHint(r *reader, n, width int) int {
	if rem := r.remaining(); rem >= 0 && width > 0 {
		return min(n, int(rem)/width)
	}
	return min(n, 1024)
}
