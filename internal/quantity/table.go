package quantity

// Group is a sub-section of a quantity table, optionally linked to an
// annotated site-survey photo. Groups own their items: removing a group
// removes every item in it.
type Group struct {
	ID      uint
	PhotoID *uint
	Items   []*Item
}

// AddItem appends a fresh item to the group and returns it.
func (g *Group) AddItem() *Item {
	item := NewItem()
	g.Items = append(g.Items, item)
	return item
}

// RemoveItem deletes the item with the given ID, reporting whether it existed.
func (g *Group) RemoveItem(id uint) bool {
	for i, item := range g.Items {
		if item.ID == id {
			g.Items = append(g.Items[:i], g.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Table is an ordered collection of groups with a user-editable name. The
// name is mutated independently of the items.
type Table struct {
	ID     uint
	Name   string
	Groups []*Group
}

// AddGroup appends an empty group and returns it.
func (t *Table) AddGroup() *Group {
	group := &Group{}
	t.Groups = append(t.Groups, group)
	return group
}

// RemoveGroup deletes the group with the given ID and all its items.
func (t *Table) RemoveGroup(id uint) bool {
	for i, group := range t.Groups {
		if group.ID == id {
			t.Groups = append(t.Groups[:i], t.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// ValidateAll runs every item's validator and collects blocking errors keyed
// by item ID. An empty result means the table may be saved; any entry must
// stop the save before a network call is attempted.
func (t *Table) ValidateAll() map[uint]FieldErrors {
	failed := map[uint]FieldErrors{}
	for _, group := range t.Groups {
		for _, item := range group.Items {
			blocking := FieldErrors{}
			for field, kind := range item.Errors() {
				if kind.Blocking() {
					blocking[field] = kind
				}
			}
			if len(blocking) > 0 {
				failed[item.ID] = blocking
			}
		}
	}
	return failed
}
