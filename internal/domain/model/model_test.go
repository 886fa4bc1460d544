package model

import "testing"

func TestCartLineSubtotal(t *testing.T) {
	resolved := CartLine{ProductID: "p1", Quantity: 3, Snapshot: &Product{ID: "p1", Price: 2.5}}
	if got := resolved.Subtotal(); got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
	unresolved := CartLine{ProductID: "p2", Quantity: 4}
	if got := unresolved.Subtotal(); got != 0 {
		t.Fatalf("unresolved line must contribute 0, got %v", got)
	}
	if unresolved.Resolved() {
		t.Fatal("expected line to be unresolved")
	}
}

func TestCartTotalSkipsUnresolvedLines(t *testing.T) {
	lines := []CartLine{
		{ProductID: "p1", Quantity: 2, Snapshot: &Product{Price: 10}},
		{ProductID: "p2", Quantity: 5},
		{ProductID: "p3", Quantity: 1, Snapshot: &Product{Price: 0.99}},
	}
	if got := CartTotal(lines); got != 20.99 {
		t.Fatalf("expected 20.99, got %v", got)
	}
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("empty cart total must be 0, got %v", got)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if ValidOrderStatus("returned") {
		t.Fatal("expected unknown status to be invalid")
	}
	if ValidOrderStatus("") {
		t.Fatal("expected empty status to be invalid")
	}
}
