package ui

import "testing"

func TestFocusManager_NextPrevWrap(t *testing.T) {
	f := &FocusManager{}
	f.SetOrder([]string{"a", "b", "c"})

	if f.Current != "a" {
		t.Fatalf("initial focus = %q, want a", f.Current)
	}
	if got := f.Next(); got != "b" {
		t.Errorf("Next = %q, want b", got)
	}
	f.Next()
	if got := f.Next(); got != "a" {
		t.Errorf("wrap = %q, want a", got)
	}
	if got := f.Prev(); got != "c" {
		t.Errorf("Prev wrap = %q, want c", got)
	}
}

func TestFocusManager_SetOrderReconciles(t *testing.T) {
	f := &FocusManager{}
	f.SetOrder([]string{"a", "b"})
	f.SetFocus("b")

	// b survives the rebuild, focus stays put.
	f.SetOrder([]string{"b", "c"})
	if f.Current != "b" {
		t.Errorf("focus = %q, want b", f.Current)
	}

	// b disappears, focus snaps to the first entry.
	f.SetOrder([]string{"c", "d"})
	if f.Current != "c" {
		t.Errorf("focus = %q, want c", f.Current)
	}

	f.SetOrder(nil)
	if f.Current != "" {
		t.Errorf("focus = %q, want empty", f.Current)
	}
}

func TestFocusManager_SetFocusAndOnChange(t *testing.T) {
	var from, to string
	f := &FocusManager{OnChange: func(a, b string) { from, to = a, b }}
	f.SetOrder([]string{"a", "b"})

	if !f.SetFocus("b") {
		t.Fatal("SetFocus rejected a valid id")
	}
	if from != "a" || to != "b" {
		t.Errorf("OnChange fired with %q->%q", from, to)
	}
	if f.SetFocus("zzz") {
		t.Error("SetFocus accepted an unknown id")
	}
}
