package walker

import (
	"fmt"

	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
)

// menuItems lists the structural operations offered for a node
func menuItems(kind plist.Kind, root bool) []frame.MenuItem {
	var items []frame.MenuItem
	switch kind {
	case plist.KindDictionary:
		items = append(items, frame.MenuAddChild, frame.MenuSort)
	case plist.KindArray:
		items = append(items, frame.MenuAddChild)
	}
	if !root {
		items = append(items, frame.MenuDuplicate, frame.MenuRemove)
	}
	return items
}

// typeOptions lists the kinds a node may be changed to
func typeOptions(root, allowScalarRoot bool) []plist.Kind {
	if root && !allowScalarRoot {
		return []plist.Kind{plist.KindArray, plist.KindDictionary}
	}
	return []plist.Kind{
		plist.KindArray,
		plist.KindDictionary,
		plist.KindBoolean,
		plist.KindData,
		plist.KindDate,
		plist.KindReal,
		plist.KindInteger,
		plist.KindString,
	}
}

// applyMenu performs item on the node at path. Duplicate and Remove act on
// the parent container.
func (p *pass) applyMenu(item frame.MenuItem, path plist.Path, node *plist.Value) (Outcome, error) {
	switch item {
	case frame.MenuAddChild:
		if _, err := plist.AddChild(node); err != nil {
			return Unchanged, fmt.Errorf("add child to %s: %w", path, err)
		}
		return Changed, nil
	case frame.MenuSort:
		if err := plist.SortKeys(node); err != nil {
			return Unchanged, fmt.Errorf("sort %s: %w", path, err)
		}
		return Changed, nil
	case frame.MenuDuplicate:
		parent := p.resolve(path.Parent())
		if _, err := plist.DuplicateChild(parent, path.Last()); err != nil {
			return Unchanged, fmt.Errorf("duplicate %s: %w", path, err)
		}
		return Changed, nil
	case frame.MenuRemove:
		parent := p.resolve(path.Parent())
		if err := plist.RemoveChild(parent, path.Last()); err != nil {
			return Unchanged, fmt.Errorf("remove %s: %w", path, err)
		}
		return Removed, nil
	default:
		return Unchanged, fmt.Errorf("unknown menu item %d", item)
	}
}

// summary describes a container's size
func summary(node *plist.Value) string {
	n := node.Len()
	switch node.Kind() {
	case plist.KindArray:
		if n == 1 {
			return "1 ordered object"
		}
		return fmt.Sprintf("%d ordered objects", n)
	default:
		if n == 1 {
			return "1 key/value pair"
		}
		return fmt.Sprintf("%d key/value pairs", n)
	}
}
