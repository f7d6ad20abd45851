package dispatch

import "disk2/protocol"

// buttonAction binds one button bit to a menu operation. Level actions run
// on every button event with the bit's current state; the others run only
// while their bit is set.
type buttonAction struct {
	mask  uint8
	name  string
	level bool
	run   func(set bool) error
}

// buttonTable lists the actions in the order they are evaluated. Every
// matching entry runs; there is no early exit.
func (d *Dispatcher) buttonTable() []buttonAction {
	return []buttonAction{
		{mask: protocol.BtnOSD, name: "osd", level: true, run: d.overlay.SetEnabled},
		{mask: protocol.BtnRefresh, name: "refresh", run: func(bool) error {
			d.menu.Refresh()
			return d.menu.Redraw()
		}},
		{mask: protocol.BtnUp, name: "up", run: func(bool) error { return d.menu.MoveCursor(-1) }},
		{mask: protocol.BtnDown, name: "down", run: func(bool) error { return d.menu.MoveCursor(1) }},
		{mask: protocol.BtnLeft, name: "parent", run: func(bool) error { return d.menu.Up() }},
		{mask: protocol.BtnRight, name: "enter", run: func(bool) error { return d.menu.Enter() }},
	}
}

// ButtonNames returns the action names in evaluation order
func (d *Dispatcher) ButtonNames() []string {
	names := make([]string, len(d.actions))
	for i, a := range d.actions {
		names[i] = a.name
	}
	return names
}
