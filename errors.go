package needle

import (
	"errors"
	"fmt"
)

// Kind discriminates the failures the overlay core can report.
type Kind uint8

const (
	// KindOther is an unclassified failure.
	KindOther Kind = iota

	// Startup failures.
	KindSurfaceCreationFailed
	KindNoSuitableAdapter
	KindDeviceRequestFailed

	// Frame acquisition and presentation failures.
	KindTimeout
	KindOutdated
	KindLost
	KindOutOfMemory

	// Renderer failures.
	KindRemovedFromAtlas
	KindScreenResolutionChanged
	KindInvalidBufferRegistration
	KindRendererUpdateFailure
	KindShaderRead

	// Collaborator failures.
	KindFontRead
)

var kindMessages = [...]string{
	KindOther:                     "Other | Unknown error",
	KindSurfaceCreationFailed:     "InitializationError | Failed to create surface",
	KindNoSuitableAdapter:         "InitializationError | Failed to find an adapter supported by the surface",
	KindDeviceRequestFailed:       "InitializationError | Failed to request device",
	KindTimeout:                   "Surface | Timeout",
	KindOutdated:                  "Surface | Outdated",
	KindLost:                      "Surface | Lost",
	KindOutOfMemory:               "Surface | Out of memory",
	KindRemovedFromAtlas:          "Renderer | Removed from atlas",
	KindScreenResolutionChanged:   "Renderer | Screen resolution changed",
	KindInvalidBufferRegistration: "Renderer | Vertex buffers, layouts or index data do not match",
	KindRendererUpdateFailure:     "Renderer | Failed to prepare renderer",
	KindShaderRead:                "Renderer | Failed to read shader file",
	KindFontRead:                  "Filesystem | Failed to read font",
}

var kindNames = [...]string{
	KindOther:                     "Other",
	KindSurfaceCreationFailed:     "SurfaceCreationFailed",
	KindNoSuitableAdapter:         "NoSuitableAdapter",
	KindDeviceRequestFailed:       "DeviceRequestFailed",
	KindTimeout:                   "Timeout",
	KindOutdated:                  "Outdated",
	KindLost:                      "Lost",
	KindOutOfMemory:               "OutOfMemory",
	KindRemovedFromAtlas:          "RemovedFromAtlas",
	KindScreenResolutionChanged:   "ScreenResolutionChanged",
	KindInvalidBufferRegistration: "InvalidBufferRegistration",
	KindRendererUpdateFailure:     "RendererUpdateFailure",
	KindShaderRead:                "ShaderRead",
	KindFontRead:                  "FontRead",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) message() string {
	if int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return kindMessages[KindOther]
}

// Fatal reports whether a failure of this kind should terminate the process.
func (k Kind) Fatal() bool {
	switch k {
	case KindSurfaceCreationFailed, KindNoSuitableAdapter, KindDeviceRequestFailed, KindOutOfMemory:
		return true
	default:
		return false
	}
}

// Recoverable reports whether a failure of this kind only drops the current
// frame. The next tick retries from scratch.
func (k Kind) Recoverable() bool {
	switch k {
	case KindTimeout, KindOutdated, KindLost, KindRemovedFromAtlas, KindScreenResolutionChanged:
		return true
	default:
		return false
	}
}

// Error is a classified failure with an optional lower-level cause.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Kind.message(), e.Err)
	}
	return e.Kind.message()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so the sentinels below work
// with errors.Is regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError returns an *Error of the given kind wrapping err.
func NewError(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// Errorf returns an *Error of the given kind wrapping a formatted cause.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrSurfaceCreationFailed     = &Error{Kind: KindSurfaceCreationFailed}
	ErrNoSuitableAdapter         = &Error{Kind: KindNoSuitableAdapter}
	ErrDeviceRequestFailed       = &Error{Kind: KindDeviceRequestFailed}
	ErrTimeout                   = &Error{Kind: KindTimeout}
	ErrOutdated                  = &Error{Kind: KindOutdated}
	ErrLost                      = &Error{Kind: KindLost}
	ErrOutOfMemory               = &Error{Kind: KindOutOfMemory}
	ErrOther                     = &Error{Kind: KindOther}
	ErrRemovedFromAtlas          = &Error{Kind: KindRemovedFromAtlas}
	ErrScreenResolutionChanged   = &Error{Kind: KindScreenResolutionChanged}
	ErrInvalidBufferRegistration = &Error{Kind: KindInvalidBufferRegistration}
	ErrRendererUpdateFailure     = &Error{Kind: KindRendererUpdateFailure}
	ErrShaderRead                = &Error{Kind: KindShaderRead}
	ErrFontRead                  = &Error{Kind: KindFontRead}
)

// KindOf returns the kind of the first *Error in err's chain.
// It returns false if err is nil or carries no *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindOther, false
}

// IsFatal reports whether err carries a fatal kind.
func IsFatal(err error) bool {
	k, ok := KindOf(err)
	return ok && k.Fatal()
}

// IsRecoverable reports whether err carries a recoverable kind.
func IsRecoverable(err error) bool {
	k, ok := KindOf(err)
	return ok && k.Recoverable()
}
