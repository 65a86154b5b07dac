package pricing

import "testing"

func TestAddItemDeduplicatesById(t *testing.T) {
	item := paracetamol()
	lines := AddItem(nil, item)
	lines = AddItem(lines, item)
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 after repeated selection, got %d", lines[0].Quantity)
	}
	if lines[0].UnitType != UnitBox {
		t.Fatalf("new lines must default to box, got %s", lines[0].UnitType)
	}
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	lines := AddItem(nil, paracetamol())
	out := RemoveItem(lines, "missing")
	if len(out) != 1 {
		t.Fatalf("removing an absent id changed the line set: %+v", out)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	item := paracetamol()
	viaSet := SetQuantity(AddItem(nil, item), item.ID, 0)
	viaRemove := RemoveItem(AddItem(nil, item), item.ID)
	if len(viaSet) != len(viaRemove) || len(viaSet) != 0 {
		t.Fatalf("setQuantity(0) and removeItem disagree: %+v vs %+v", viaSet, viaRemove)
	}
	// Negative quantities behave the same way.
	if out := SetQuantity(AddItem(nil, item), item.ID, -3); len(out) != 0 {
		t.Fatalf("negative quantity should remove the line, got %+v", out)
	}
}

func TestSetQuantityUpdatesInPlace(t *testing.T) {
	item := paracetamol()
	lines := SetQuantity(AddItem(nil, item), item.ID, 7)
	if lines[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", lines[0].Quantity)
	}
}

func TestSetUnitTypeOnlyAppliesToMedicines(t *testing.T) {
	med := paracetamol()
	device := Item{ID: "dev-1", Name: "Nebulizer", Price: 900, Category: CategoryMedicalDevice}

	lines := AddItem(AddItem(nil, med), device)
	lines = SetUnitType(lines, med.ID, UnitBlister)
	lines = SetUnitType(lines, device.ID, UnitBlister)

	if lines[0].UnitType != UnitBlister {
		t.Fatalf("medicine line should switch to blister, got %s", lines[0].UnitType)
	}
	if lines[1].UnitType != UnitBox {
		t.Fatalf("non-medicine line must stay boxed, got %s", lines[1].UnitType)
	}
}

func TestSetUnitTypeRejectsUnknownUnit(t *testing.T) {
	med := paracetamol()
	lines := SetUnitType(AddItem(nil, med), med.ID, UnitType("strip"))
	if lines[0].UnitType != UnitBox {
		t.Fatalf("unknown unit must be ignored, got %s", lines[0].UnitType)
	}
}
