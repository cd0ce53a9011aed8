package types

import "path/filepath"

// RenameInstruction pairs a subtitle file with the name it should get.
type RenameInstruction struct {
	Source     FileRef
	TargetName string
	TargetDir  string
}

// TargetPath returns the full destination path.
func (r RenameInstruction) TargetPath() string {
	return filepath.Join(r.TargetDir, r.TargetName)
}

// RenameOutcome holds the result of executing a single instruction.
// Ref is the file's location after the attempt: the new path on success,
// the untouched source otherwise.
type RenameOutcome struct {
	Instruction RenameInstruction
	Ref         FileRef
	Err         error
	Skipped     bool // destination existed and the skip policy applied
	DryRun      bool // nothing was touched, Ref is the would-be path
}

// OK reports whether the instruction succeeded.
func (o RenameOutcome) OK() bool {
	return o.Err == nil && !o.Skipped
}

// Moved reports whether the file actually changed location.
func (o RenameOutcome) Moved() bool {
	return o.OK() && !o.DryRun && o.Ref.Path() != o.Instruction.Source.Path()
}
