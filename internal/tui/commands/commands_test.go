package commands

import (
	"errors"
	"testing"
)

func TestCopy(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var got string
	writeClipboard = func(s string) error {
		got = s
		return nil
	}

	msg := Copy("2025-04-15-1 08:00-09:30")()
	copied, ok := msg.(CopiedMsg)
	if !ok {
		t.Fatalf("expected CopiedMsg, got %T", msg)
	}
	if copied.Text != got || got != "2025-04-15-1 08:00-09:30" {
		t.Errorf("clipboard got %q, msg %q", got, copied.Text)
	}
}

func TestCopy_Error(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	errNoDisplay := errors.New("no display")
	writeClipboard = func(string) error { return errNoDisplay }

	msg := Copy("x")()
	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("expected ErrMsg, got %T", msg)
	}
	if !errors.Is(errMsg.Err, errNoDisplay) {
		t.Errorf("got %v, want wrapped %v", errMsg.Err, errNoDisplay)
	}
}

func TestSync(t *testing.T) {
	errDiskFull := errors.New("disk full")

	tests := []struct {
		name    string
		sync    func() error
		wantErr bool
	}{
		{name: "no storage", sync: nil},
		{name: "flushed", sync: func() error { return nil }},
		{name: "failed", sync: func() error { return errDiskFull }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Sync("deleted", tt.sync)()
			if tt.wantErr {
				errMsg, ok := msg.(ErrMsg)
				if !ok || !errors.Is(errMsg.Err, errDiskFull) {
					t.Errorf("got %#v, want ErrMsg wrapping %v", msg, errDiskFull)
				}
				return
			}
			synced, ok := msg.(SyncedMsg)
			if !ok || synced.Action != "deleted" {
				t.Errorf("got %#v, want SyncedMsg{deleted}", msg)
			}
		})
	}
}
