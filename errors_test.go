package needle

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("render frame: %w", NewError(KindOutdated, errors.New("swapchain out of date")))

	if !errors.Is(err, ErrOutdated) {
		t.Error("errors.Is(err, ErrOutdated) = false, want true")
	}
	if errors.Is(err, ErrLost) {
		t.Error("errors.Is(err, ErrLost) = true, want false")
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewError(KindShaderRead, fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrLost, "Surface | Lost"},
		{ErrRemovedFromAtlas, "Renderer | Removed from atlas"},
		{NewError(KindDeviceRequestFailed, errors.New("no vulkan")), "InitializationError | Failed to request device (no vulkan)"},
		{Errorf(KindFontRead, "font %q", "Mono.ttf"), `Filesystem | Failed to read font (font "Mono.ttf")`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(fmt.Errorf("wrap: %w", ErrTimeout))
	if !ok || k != KindTimeout {
		t.Errorf("KindOf = (%v, %v), want (Timeout, true)", k, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report false")
	}
	if _, ok := KindOf(nil); ok {
		t.Error("KindOf(nil) should report false")
	}
}

func TestKindClassification(t *testing.T) {
	fatal := []Kind{KindSurfaceCreationFailed, KindNoSuitableAdapter, KindDeviceRequestFailed, KindOutOfMemory}
	for _, k := range fatal {
		if !k.Fatal() || k.Recoverable() {
			t.Errorf("%v: Fatal=%v Recoverable=%v, want fatal only", k, k.Fatal(), k.Recoverable())
		}
	}
	recoverable := []Kind{KindTimeout, KindOutdated, KindLost, KindRemovedFromAtlas, KindScreenResolutionChanged}
	for _, k := range recoverable {
		if k.Fatal() || !k.Recoverable() {
			t.Errorf("%v: Fatal=%v Recoverable=%v, want recoverable only", k, k.Fatal(), k.Recoverable())
		}
	}
	construction := []Kind{KindInvalidBufferRegistration, KindShaderRead, KindFontRead}
	for _, k := range construction {
		if k.Fatal() || k.Recoverable() {
			t.Errorf("%v should be neither fatal nor recoverable", k)
		}
	}

	if !IsFatal(fmt.Errorf("present: %w", ErrOutOfMemory)) {
		t.Error("IsFatal should see through wrapping")
	}
	if !IsRecoverable(ErrScreenResolutionChanged) {
		t.Error("IsRecoverable(ErrScreenResolutionChanged) = false")
	}
}

func TestKindString(t *testing.T) {
	if got := KindNoSuitableAdapter.String(); got != "NoSuitableAdapter" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(200).String(); !strings.HasPrefix(got, "Kind(") {
		t.Errorf("unknown kind String() = %q", got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		kind LabelKind
		name string
		want string
	}{
		{LabelVertexBuffer, "Background", "Background Vertex Buffer"},
		{LabelIndexBuffer, "", "Index Buffer"},
		{LabelPipeline, "", "Render Pipeline"},
		{LabelPipeline, "Text", "Text Pipeline"},
		{LabelCommandEncoder, "", "Command Encoder"},
	}
	for _, tt := range tests {
		if got := Label(tt.kind, tt.name); got != tt.want {
			t.Errorf("Label(%d, %q) = %q, want %q", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestVersionInfo(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	if got := VersionInfo(); got != "needle v1.2.3" {
		t.Errorf("VersionInfo() = %q", got)
	}
	Version = ""
	if got := VersionInfo(); !strings.HasPrefix(got, "needle ") {
		t.Errorf("VersionInfo() = %q", got)
	}
}
