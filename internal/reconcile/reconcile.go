// Package reconcile pairs the media list with the subtitle list and derives
// the rename plan.
package reconcile

import (
	"ezsubs/internal/errors"
	"ezsubs/pkg/types"
)

// Source is anything that can hand out an ordered snapshot of files.
type Source interface {
	Items() []types.FileRef
}

// Reconcile snapshots both sources and pairs them by position.
func Reconcile(media, subs Source) ([]types.RenameInstruction, error) {
	return Pair(media.Items(), subs.Items())
}

// Pair matches media[i] with subs[i]. Each subtitle is renamed to the media
// file's base name, keeping its own extension and directory. When the two
// lists differ in length nothing is paired and a *errors.CountMismatchError
// is returned.
func Pair(media, subs []types.FileRef) ([]types.RenameInstruction, error) {
	if len(media) != len(subs) {
		return nil, errors.NewCountMismatchError(len(media), len(subs))
	}

	plan := make([]types.RenameInstruction, len(media))
	for i := range media {
		plan[i] = types.RenameInstruction{
			Source:     subs[i],
			TargetName: TargetName(media[i], subs[i]),
			TargetDir:  subs[i].Dir(),
		}
	}
	return plan, nil
}

// TargetName returns the name sub should take to match video.
func TargetName(video, sub types.FileRef) string {
	if ext := sub.RawExt(); ext != "" {
		return video.BaseName() + "." + ext
	}
	return video.BaseName()
}
