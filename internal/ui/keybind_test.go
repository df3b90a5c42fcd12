package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestKeybindRegistry_LookupAndNormalize(t *testing.T) {
	reg := NewKeybindRegistry()
	fired := false
	reg.Bind("SPC p g", func() tea.Msg { fired = true; return nil })

	if cmd := reg.Lookup("space p g"); cmd == nil {
		t.Fatal("expected space-normalized lookup to hit")
	} else {
		cmd()
	}
	if !fired {
		t.Error("bound command did not fire")
	}
	if reg.Lookup("SPC p x") != nil {
		t.Error("unbound sequence should return nil")
	}
}

func TestKeybindRegistry_HasPrefix(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC p g", func() tea.Msg { return nil })

	if !reg.HasPrefix("SPC") || !reg.HasPrefix("SPC p") {
		t.Error("expected prefixes of a bound sequence to report true")
	}
	if reg.HasPrefix("SPC p g") {
		t.Error("a complete sequence is not a prefix of itself")
	}
}

func TestKeyHandler_LeaderSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	var got tea.Msg
	reg.Bind("SPC p g", func() tea.Msg { return "grabbed" })

	h := NewKeyHandler(reg)
	if consumed, _ := h.Handle(keyMsg(" ")); !consumed {
		t.Fatal("leader key not consumed")
	}
	if !h.LeaderWaiting {
		t.Fatal("expected leader mode after SPC")
	}
	if consumed, cmd := h.Handle(keyMsg("p")); !consumed || cmd != nil {
		t.Fatal("intermediate key should be consumed without a command")
	}
	consumed, cmd := h.Handle(keyMsg("g"))
	if !consumed || cmd == nil {
		t.Fatal("full sequence should produce a command")
	}
	if got = cmd(); got != "grabbed" {
		t.Errorf("got %v, want grabbed", got)
	}
	if h.LeaderWaiting {
		t.Error("leader mode should end after a completed sequence")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if consumed, _ := h.Handle(keyMsg("esc")); !consumed {
		t.Error("esc in leader mode should be consumed")
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
	if consumed, _ := h.Handle(keyMsg("esc")); consumed {
		t.Error("esc outside leader mode should pass through")
	}
}

func TestKeyHandler_UnknownSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("z"))
	if !consumed || cmd != nil {
		t.Error("unknown sequence is swallowed without a command")
	}
	if h.LeaderWaiting {
		t.Error("unknown sequence should exit leader mode")
	}
}

func TestLeaderHints_SubmenuLabel(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC q", func() tea.Msg { return nil }, "Quit")
	reg.BindWithDesc("SPC p g", func() tea.Msg { return nil }, "Grab (move)")
	reg.BindWithDesc("SPC p x", func() tea.Msg { return nil }, "Close")

	hints := reg.LeaderHints("", ModeBrowse)
	if hints["q"] != "Quit" {
		t.Errorf("q hint = %q", hints["q"])
	}
	if hints["p"] != "Panel" {
		t.Errorf("submenu key should use the generic label, got %q", hints["p"])
	}

	sub := reg.LeaderHints("SPC p", ModeBrowse)
	if sub["g"] != "Grab (move)" || sub["x"] != "Close" {
		t.Errorf("submenu hints = %v", sub)
	}
}

func TestLeaderHints_ModeFilter(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDescForMode("SPC g", func() tea.Msg { return nil }, "Grab only", []AppMode{ModeGrab})

	if hints := reg.LeaderHints("", ModeBrowse); len(hints) != 0 {
		t.Errorf("browse hints = %v, want none", hints)
	}
	if hints := reg.LeaderHints("", ModeGrab); hints["g"] != "Grab only" {
		t.Errorf("grab hints = %v", hints)
	}
}
