package gui

import "testing"

func testPopup(message ...string) *Popup {
	items := []PopupItem{
		{Label: "Global", IsHeader: true},
		{Key: "r", Label: "Reload"},
		{Key: "q", Label: "Quit"},
		{Label: "Settings", IsHeader: true},
		{Key: "c", Label: "Copy"},
	}
	p := NewPopup("Test", items, &Theme{}, "helpModal")
	p.Message = message
	return p
}

func TestPopupSkipsHeaders(t *testing.T) {
	p := testPopup()
	if p.SelectedIdx != 1 {
		t.Fatalf("initial selection = %d, want 1", p.SelectedIdx)
	}

	p.MoveDown()
	p.MoveDown()
	if p.SelectedIdx != 4 {
		t.Errorf("after two moves down = %d, want 4", p.SelectedIdx)
	}
	p.MoveDown()
	if p.SelectedIdx != 4 {
		t.Errorf("moving past the end = %d, want 4", p.SelectedIdx)
	}

	p.MoveUp()
	p.MoveUp()
	p.MoveUp()
	if p.SelectedIdx != 1 {
		t.Errorf("moving past the start = %d, want 1", p.SelectedIdx)
	}
	if got := p.GetSelectedItem().Label; got != "Reload" {
		t.Errorf("selected item = %q, want Reload", got)
	}
}

func TestPopupItemAtLine(t *testing.T) {
	plain := testPopup()
	withMessage := testPopup("Xcode is not running", "Open your project in Xcode")

	tests := []struct {
		name  string
		popup *Popup
		line  int
		want  int
	}{
		{"header", plain, 0, -1},
		{"first item", plain, 1, 1},
		{"last item", plain, 4, 4},
		{"footer", plain, 6, -1},
		{"message line", withMessage, 1, -1},
		{"blank after message", withMessage, 2, -1},
		{"item below message", withMessage, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.popup.ItemAtLine(tt.line); got != tt.want {
				t.Errorf("ItemAtLine(%d) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}

	if got := withMessage.Height(); got != 10 {
		t.Errorf("Height() = %d, want 10", got)
	}
}
