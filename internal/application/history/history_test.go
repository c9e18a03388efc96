package history

import (
	"context"
	"errors"
	"testing"
)

// scriptedCommand counts invocations and fails on demand.
type scriptedCommand struct {
	name        string
	failExecute bool
	failUndo    bool
	executes    int
	undos       int
}

func (c *scriptedCommand) Execute(ctx context.Context) error {
	c.executes++
	if c.failExecute {
		return errors.New("execute failed")
	}
	return nil
}

func (c *scriptedCommand) Undo(ctx context.Context) error {
	c.undos++
	if c.failUndo {
		return errors.New("undo failed")
	}
	return nil
}

func (c *scriptedCommand) Description() string { return c.name }

func TestExecutePushesOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	h := New(nil)

	good := &scriptedCommand{name: "good"}
	if err := h.Execute(ctx, good); err != nil {
		t.Fatalf("Execute(good) failed: %v", err)
	}

	bad := &scriptedCommand{name: "bad", failExecute: true}
	if err := h.Execute(ctx, bad); err == nil {
		t.Fatal("Execute(bad) should fail")
	}

	undo, redo := h.Depths()
	if undo != 1 || redo != 0 {
		t.Fatalf("stacks = (%d, %d), want (1, 0)", undo, redo)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := New(nil)
	cmd := &scriptedCommand{name: "cmd"}

	if err := h.Execute(ctx, cmd); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := h.Redo(ctx); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}

	if cmd.executes != 2 || cmd.undos != 1 {
		t.Fatalf("invocations = (%d executes, %d undos), want (2, 1)", cmd.executes, cmd.undos)
	}
	undo, redo := h.Depths()
	if undo != 1 || redo != 0 {
		t.Fatalf("stacks = (%d, %d), want (1, 0)", undo, redo)
	}
}

func TestEmptyStacks(t *testing.T) {
	ctx := context.Background()
	h := New(nil)

	if err := h.Undo(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo on empty = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo on empty = %v, want ErrNothingToRedo", err)
	}
}

func TestNewCommandClearsRedoStack(t *testing.T) {
	ctx := context.Background()
	h := New(nil)

	a := &scriptedCommand{name: "a"}
	b := &scriptedCommand{name: "b"}
	c := &scriptedCommand{name: "c"}

	if err := h.Execute(ctx, a); err != nil {
		t.Fatalf("Execute(a) failed: %v", err)
	}
	if err := h.Execute(ctx, b); err != nil {
		t.Fatalf("Execute(b) failed: %v", err)
	}
	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := h.Execute(ctx, c); err != nil {
		t.Fatalf("Execute(c) failed: %v", err)
	}

	// b's forward history is gone: the timeline never branches.
	if err := h.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo after new command = %v, want ErrNothingToRedo", err)
	}
	if b.executes != 1 {
		t.Fatalf("b executed %d times, want 1", b.executes)
	}
}

func TestFailedUndoDropsCommand(t *testing.T) {
	ctx := context.Background()
	h := New(nil)
	cmd := &scriptedCommand{name: "cmd", failUndo: true}

	if err := h.Execute(ctx, cmd); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := h.Undo(ctx); err == nil {
		t.Fatal("Undo should fail")
	}

	// The command is gone from both stacks; a failed inverse is not retried.
	undo, redo := h.Depths()
	if undo != 0 || redo != 0 {
		t.Fatalf("stacks = (%d, %d), want (0, 0)", undo, redo)
	}
	if err := h.Undo(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second Undo = %v, want ErrNothingToUndo", err)
	}
}

func TestDescriptionsOldestFirst(t *testing.T) {
	ctx := context.Background()
	h := New(nil)

	for _, name := range []string{"first", "second", "third"} {
		if err := h.Execute(ctx, &scriptedCommand{name: name}); err != nil {
			t.Fatalf("Execute(%s) failed: %v", name, err)
		}
	}

	got := h.Descriptions()
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Descriptions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Descriptions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
