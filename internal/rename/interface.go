package rename

import "ezsubs/pkg/types"

// Renamer applies a rename plan.
// This allows the session to be tested without touching a filesystem.
type Renamer interface {
	// Execute runs every instruction in order and reports one outcome each.
	Execute(plan []types.RenameInstruction) []types.RenameOutcome

	// Move runs a single instruction.
	Move(in types.RenameInstruction) types.RenameOutcome

	// IsDryRun reports whether renames are only simulated.
	IsDryRun() bool
}

// Ensure Executor implements the Renamer interface
var _ Renamer = (*Executor)(nil)
