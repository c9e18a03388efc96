package history

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command is a reversible unit of work. Undo must be the exact inverse of
// Execute at the command's captured arguments.
type Command interface {
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
	Description() string
}

// History keeps a single linear timeline of executed commands across an undo
// stack and a redo stack. A command is never on both stacks at once, and a
// failed Execute/Undo/Redo leaves both stacks unchanged except for dropping
// the command that failed its inverse.
type History struct {
	mu     sync.Mutex
	undo   []Command
	redo   []Command
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *History {
	if logger == nil {
		logger = logrus.New()
	}
	return &History{logger: logger}
}

// Execute runs cmd and, on success, records it for undo. Executing any new
// command invalidates all forward history: the redo stack is cleared so the
// timeline never branches. A failed command is discarded.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	h.logger.WithField("command", cmd.Description()).Debug("command executed")
	return nil
}

// Undo reverses the most recent command and moves it to the redo stack.
// Returns ErrNothingToUndo when the stack is empty. An inverse that fails is
// not retried: the command is dropped and the error returned.
func (h *History) Undo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	if err := cmd.Undo(ctx); err != nil {
		h.logger.WithField("command", cmd.Description()).Warnf("undo failed: %v", err)
		return err
	}
	h.redo = append(h.redo, cmd)
	h.logger.WithField("command", cmd.Description()).Debug("command undone")
	return nil
}

// Redo re-executes the most recently undone command and moves it back to the
// undo stack. Returns ErrNothingToRedo when the stack is empty.
func (h *History) Redo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	if err := cmd.Execute(ctx); err != nil {
		h.logger.WithField("command", cmd.Description()).Warnf("redo failed: %v", err)
		return err
	}
	h.undo = append(h.undo, cmd)
	h.logger.WithField("command", cmd.Description()).Debug("command redone")
	return nil
}

// Descriptions lists the undo stack oldest first, for audit display.
func (h *History) Descriptions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(h.undo))
	for _, cmd := range h.undo {
		out = append(out, cmd.Description())
	}
	return out
}

// Depths reports the current undo and redo stack sizes.
func (h *History) Depths() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}
