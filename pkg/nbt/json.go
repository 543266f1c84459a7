package nbt

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

type jsonNode struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Elem  string `json:"elem,omitempty"`
	Value any    `json:"value"`
}

// MarshalJSON renders n as {"type":..,"name":..,"value":..}. List nodes add
// "elem" and carry their items as the value. Non-finite floats are written
// as strings.
func (n Node) MarshalJSON() ([]byte, error) {
	out := jsonNode{Type: n.Type.String(), Name: n.Name}
	switch v := n.Value.(type) {
	case List:
		out.Elem = v.ElemType.String()
		items := v.Items
		if items == nil {
			items = []Node{}
		}
		out.Value = items
	case Compound:
		if v == nil {
			v = Compound{}
		}
		out.Value = []Node(v)
	case float32:
		out.Value = jsonFloat(float64(v), 32)
	case float64:
		out.Value = jsonFloat(v, 64)
	default:
		out.Value = v
	}
	return json.Marshal(out)
}

func jsonFloat(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, bits))
}
