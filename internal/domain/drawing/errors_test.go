package drawing

import (
	"errors"
	"testing"
)

func TestErrorMatchesKind(t *testing.T) {
	err := NewError(ErrBlueprintNotFound, "Blueprint not found: %s/%s", "acme", "tower")
	if !errors.Is(err, ErrBlueprintNotFound) {
		t.Fatalf("expected errors.Is to match kind")
	}
	if errors.Is(err, ErrBlueprintExists) {
		t.Fatalf("unexpected match with another kind")
	}
	if err.Error() != "Blueprint not found: acme/tower" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if got := (&Error{Kind: ErrInvalidBlueprint}).Error(); got != "invalid blueprint" {
		t.Fatalf("empty message should fall back to kind, got %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	a, n, ok := NormalizeKey(" acme ", "tower ")
	if !ok || a != "acme" || n != "tower" {
		t.Fatalf("unexpected %q %q %v", a, n, ok)
	}
	if _, _, ok := NormalizeKey("acme", "  "); ok {
		t.Fatalf("blank name must be rejected")
	}
}

func TestBlueprintKeyAndPoints(t *testing.T) {
	bp := &Blueprint{Author: "acme", Name: "tower", Points: []BlueprintPoint{{X: 1, Y: 2, Ordinal: 0}, {X: 3, Y: 4, Ordinal: 1}}}
	if bp.Key() != "acme:tower" {
		t.Fatalf("unexpected key %q", bp.Key())
	}
	pts := bp.PointValues()
	if len(pts) != 2 || pts[0] != (Point{X: 1, Y: 2}) || pts[1] != (Point{X: 3, Y: 4}) {
		t.Fatalf("unexpected points %v", pts)
	}
	var nilBP *Blueprint
	if nilBP.Key() != "" || nilBP.PointValues() != nil {
		t.Fatalf("nil blueprint helpers must be safe")
	}
}
