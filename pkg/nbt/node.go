package nbt

// Node is one element of a decoded document. Value holds exactly one of the
// following, selected by Type:
//
//	TypeEnd        nil
//	TypeByte       int8
//	TypeShort      int16
//	TypeInt        int32
//	TypeLong       int64
//	TypeFloat      float32
//	TypeDouble     float64
//	TypeByteArray  []int8
//	TypeString     string
//	TypeList       List
//	TypeCompound   Compound
//	TypeIntArray   []int32
//	TypeLongArray  []int64
//
// List elements have an empty Name.
type Node struct {
	Type  Type
	Name  string
	Value any
}

// List is the payload of a list node.
type List struct {
	ElemType Type
	Items    []Node
}

// Compound is the payload of a compound node: its children in wire order,
// without the terminating End. Names are not guaranteed to be unique.
type Compound []Node

// Find returns the first child named name.
func (c Compound) Find(name string) (Node, bool) {
	for _, n := range c {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// FindType returns the first child named name whose type is t. Children that
// share the name but not the type are skipped.
func (c Compound) FindType(name string, t Type) (Node, bool) {
	for _, n := range c {
		if n.Name == name && n.Type == t {
			return n, true
		}
	}
	return Node{}, false
}

func (n Node) Byte() (int8, bool) {
	v, ok := n.Value.(int8)
	return v, ok && n.Type == TypeByte
}

func (n Node) Short() (int16, bool) {
	v, ok := n.Value.(int16)
	return v, ok && n.Type == TypeShort
}

func (n Node) Int() (int32, bool) {
	v, ok := n.Value.(int32)
	return v, ok && n.Type == TypeInt
}

func (n Node) Long() (int64, bool) {
	v, ok := n.Value.(int64)
	return v, ok && n.Type == TypeLong
}

func (n Node) Float() (float32, bool) {
	v, ok := n.Value.(float32)
	return v, ok && n.Type == TypeFloat
}

func (n Node) Double() (float64, bool) {
	v, ok := n.Value.(float64)
	return v, ok && n.Type == TypeDouble
}

func (n Node) Text() (string, bool) {
	v, ok := n.Value.(string)
	return v, ok && n.Type == TypeString
}

func (n Node) ByteArray() ([]int8, bool) {
	v, ok := n.Value.([]int8)
	return v, ok && n.Type == TypeByteArray
}

func (n Node) IntArray() ([]int32, bool) {
	v, ok := n.Value.([]int32)
	return v, ok && n.Type == TypeIntArray
}

func (n Node) LongArray() ([]int64, bool) {
	v, ok := n.Value.([]int64)
	return v, ok && n.Type == TypeLongArray
}

func (n Node) List() (List, bool) {
	v, ok := n.Value.(List)
	return v, ok && n.Type == TypeList
}

func (n Node) Compound() (Compound, bool) {
	v, ok := n.Value.(Compound)
	return v, ok && n.Type == TypeCompound
}

// Int64 widens any integer scalar to int64.
func (n Node) Int64() (int64, bool) {
	switch v := n.Value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}
