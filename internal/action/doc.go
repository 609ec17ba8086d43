// Package action is the command surface shared by the URL scheme and the
// webhook listener.
//
// A command string such as "brightness/50/Office/Lamp" is parsed into a
// Request, the target is resolved against the current home snapshot and
// group list, and the Engine fans the command out to every resolved
// service through an Executor. Resolution verdicts that cannot be acted on
// (not found, ambiguous, unsupported) come back as typed *Error values with
// a user-facing message.
package action
