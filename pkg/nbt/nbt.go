// Package nbt decodes the tagged binary document format stored in region
// chunks.
//
// A document is a tree of named nodes. Every node on the wire starts with a
// 1-byte type id and, unless it is End, a 2-byte length-prefixed UTF-8 name,
// followed by a type-specific big-endian payload. Compounds hold named
// children terminated by an End node; lists hold unnamed payloads of a single
// element type.
package nbt

import "fmt"

// Type is a node type id.
type Type uint8

const (
	TypeEnd       Type = 0
	TypeByte      Type = 1
	TypeShort     Type = 2
	TypeInt       Type = 3
	TypeLong      Type = 4
	TypeFloat     Type = 5
	TypeDouble    Type = 6
	TypeByteArray Type = 7
	TypeString    Type = 8
	TypeList      Type = 9
	TypeCompound  Type = 10
	TypeIntArray  Type = 11
	TypeLongArray Type = 12
)

func (t Type) String() string {
	switch t {
	case TypeEnd:
		return "end"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeByteArray:
		return "byte_array"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeCompound:
		return "compound"
	case TypeIntArray:
		return "int_array"
	case TypeLongArray:
		return "long_array"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the thirteen known ids.
func (t Type) Valid() bool {
	return t <= TypeLongArray
}
