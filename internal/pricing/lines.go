package pricing

// AddItem merges an item into the line set. Selecting an already present
// item increments its quantity instead of creating a duplicate line; new
// lines start at quantity 1 priced per box.
func AddItem(lines []Line, item Item) []Line {
	for i := range lines {
		if lines[i].Item.ID == item.ID {
			lines[i].Quantity++
			return lines
		}
	}
	return append(lines, Line{Item: item, Quantity: 1, UnitType: UnitBox})
}

// RemoveItem deletes the line with the matching item id. Absent ids are a
// no-op.
func RemoveItem(lines []Line, itemID string) []Line {
	for i := range lines {
		if lines[i].Item.ID == itemID {
			return append(lines[:i], lines[i+1:]...)
		}
	}
	return lines
}

// SetQuantity updates a line's quantity. A quantity of zero or less is
// equivalent to RemoveItem. No upper bound is enforced; quantities are
// deliberately unbounded until business rules say otherwise.
func SetQuantity(lines []Line, itemID string, quantity int) []Line {
	if quantity <= 0 {
		return RemoveItem(lines, itemID)
	}
	for i := range lines {
		if lines[i].Item.ID == itemID {
			lines[i].Quantity = quantity
			break
		}
	}
	return lines
}

// SetUnitType switches a line between blister and box. The change only
// applies to medicine categories; for anything else it is silently
// ignored, matching the unit's lack of pricing effect there.
func SetUnitType(lines []Line, itemID string, unit UnitType) []Line {
	if !unit.Valid() {
		return lines
	}
	for i := range lines {
		if lines[i].Item.ID == itemID {
			if lines[i].Item.Category.IsMedicine() {
				lines[i].UnitType = unit
			}
			break
		}
	}
	return lines
}
