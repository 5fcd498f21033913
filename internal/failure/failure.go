// Package failure classifies the errors the visualizer can surface to a host.
//
// Every error that crosses a package boundary is built with fault and carries
// one of the kinds below, so the UI can decide between an inline message and a
// hard exit without string matching.
package failure

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

const (
	// InvalidInput marks a malformed note set or configuration payload.
	InvalidInput ftag.Kind = "INVALID_INPUT"
	// AudioLoad marks an audio resource that could not be opened or decoded.
	AudioLoad ftag.Kind = "AUDIO_LOAD"
	// NotFound marks a missing input file.
	NotFound = ftag.NotFound
	// NotLoaded marks a playback command issued before audio was loaded.
	NotLoaded ftag.Kind = "NOT_LOADED"
)

// New returns a tagged error. desc is the text shown to the user.
func New(kind ftag.Kind, msg string, desc string) error {
	return fault.Wrap(fault.New(msg), fmsg.WithDesc(msg, desc), ftag.With(kind))
}

// Wrap tags err and attaches a user-facing description.
func Wrap(err error, kind ftag.Kind, msg string, desc string) error {
	if err == nil {
		return nil
	}
	return fault.Wrap(err, fmsg.WithDesc(msg, desc), ftag.With(kind))
}

// Is reports whether err carries kind.
func Is(err error, kind ftag.Kind) bool {
	return err != nil && ftag.Get(err) == kind
}

// Message returns the single line shown in place of the visualization.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if issue := fmsg.GetIssue(err); issue != "" {
		return issue
	}
	return err.Error()
}
