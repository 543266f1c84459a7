package trim

import (
	"fmt"

	"github.com/samcharles93/regiontrim/pkg/nbt"
)

const (
	inhabitedTimeField = "InhabitedTime"
	legacyLevelField   = "Level"
)

// InhabitedTime extracts the chunk's InhabitedTime long. Roots with more
// than two children hold the field directly. Smaller roots wrap it in a
// nested compound: the child named Level, or failing that the second child.
func InhabitedTime(root nbt.Node) (int64, error) {
	children, ok := root.Compound()
	if !ok {
		return 0, fmt.Errorf("%w: root is %s, not compound", ErrFieldNotFound, root.Type)
	}

	if len(children) <= 2 {
		nested, ok := children.Find(legacyLevelField)
		if !ok {
			if len(children) < 2 {
				return 0, fmt.Errorf("%w: root has %d children and no %s", ErrFieldNotFound, len(children), legacyLevelField)
			}
			nested = children[1]
		}
		children, ok = nested.Compound()
		if !ok {
			return 0, fmt.Errorf("%w: %q is %s, not compound", ErrFieldNotFound, nested.Name, nested.Type)
		}
	}

	v, ok := nbt.GetLong(children, inhabitedTimeField)
	if !ok {
		return 0, ErrFieldNotFound
	}
	return v, nil
}
