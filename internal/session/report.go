package session

import (
	"fmt"
	"strings"

	"ezsubs/internal/errors"
	"ezsubs/pkg/types"
)

// SyncReport is the result of SyncLists: either a count mismatch, in which
// case nothing was touched, or one outcome per pair.
type SyncReport struct {
	Mismatch *errors.CountMismatchError
	Outcomes []types.RenameOutcome
	DryRun   bool
	Updated  int // subtitle entries rewritten in the panel
}

// Renamed returns the outcomes that gave (or, in dry run, would give) a
// subtitle a new name.
func (r *SyncReport) Renamed() []types.RenameOutcome {
	var out []types.RenameOutcome
	for _, o := range r.Outcomes {
		if o.OK() && o.Ref.Path() != o.Instruction.Source.Path() {
			out = append(out, o)
		}
	}
	return out
}

// Failures returns the outcomes that carry an error.
func (r *SyncReport) Failures() []types.RenameOutcome {
	var out []types.RenameOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Skipped returns the outcomes left alone by the skip collision policy.
func (r *SyncReport) Skipped() []types.RenameOutcome {
	var out []types.RenameOutcome
	for _, o := range r.Outcomes {
		if o.Skipped {
			out = append(out, o)
		}
	}
	return out
}

// Err returns the mismatch, all rename failures joined, or nil.
func (r *SyncReport) Err() error {
	if r.Mismatch != nil {
		return r.Mismatch
	}
	var errs []error
	for _, o := range r.Failures() {
		errs = append(errs, o.Err)
	}
	return errors.Join(errs...)
}

// OK reports whether the sync ran with no mismatch and no failures.
func (r *SyncReport) OK() bool {
	return r.Err() == nil
}

// Summary renders the report as alert text for the user.
func (r *SyncReport) Summary() string {
	if m := r.Mismatch; m != nil {
		return fmt.Sprintf("Cannot sync: %d media files but %d subtitle files. Both lists must have the same length.",
			m.MediaCount, m.SubtitleCount)
	}
	if len(r.Outcomes) == 0 {
		return "Nothing to sync."
	}

	var sb strings.Builder
	verb := "Renamed"
	if r.DryRun {
		verb = "Would rename"
	}
	fmt.Fprintf(&sb, "%s %d of %d subtitles.", verb, len(r.Renamed()), len(r.Outcomes))

	if skipped := r.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(&sb, "\nSkipped %d (destination exists):", len(skipped))
		for _, o := range skipped {
			fmt.Fprintf(&sb, "\n  %s -> %s", o.Instruction.Source.Name(), o.Instruction.TargetName)
		}
	}
	if failures := r.Failures(); len(failures) > 0 {
		fmt.Fprintf(&sb, "\nFailed %d:", len(failures))
		for _, o := range failures {
			fmt.Fprintf(&sb, "\n  %s: %v", o.Instruction.Source.Name(), o.Err)
		}
	}
	return sb.String()
}
