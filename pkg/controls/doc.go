// Package controls implements the settings screen controls as small state
// machines that can be driven without a rendering surface.
//
// Every control is Idle until opened. While Editing it owns a draft; the
// committed value lives behind a Binding and only changes through Commit.
// Confirming commits the draft and returns to Idle, cancelling discards it.
// A commit that fails leaves the control Editing with its draft intact.
package controls
