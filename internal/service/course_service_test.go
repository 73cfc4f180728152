package service

import "testing"

func TestPermutationOrders(t *testing.T) {
	orders, err := PermutationOrders([]uint{1, 2, 3}, []uint{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders[3] != 1 || orders[1] != 2 || orders[2] != 3 {
		t.Fatalf("unexpected orders: %v", orders)
	}
}

func TestPermutationOrdersLengthMismatch(t *testing.T) {
	if _, err := PermutationOrders([]uint{1, 2, 3}, []uint{1, 2}); err == nil {
		t.Fatal("expected error for incomplete reorder list")
	}
}

func TestPermutationOrdersUnknownID(t *testing.T) {
	if _, err := PermutationOrders([]uint{1, 2}, []uint{1, 9}); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestPermutationOrdersDuplicateID(t *testing.T) {
	if _, err := PermutationOrders([]uint{1, 2}, []uint{1, 1}); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestPermutationOrdersEmpty(t *testing.T) {
	orders, err := PermutationOrders(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty map, got %v", orders)
	}
}
