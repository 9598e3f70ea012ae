// Package shaders holds the overlay's WGSL sources and turns them into the
// SPIR-V the GPU backends consume.
//
// The background pipeline loads its SPIR-V from files so users can replace
// it; Install writes the built-in versions there. The text pipeline always
// compiles its embedded source.
package shaders

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
)

//go:embed *.wgsl
var sources embed.FS

// Built-in shader names.
const (
	BackgroundVertex   = "background.vert"
	BackgroundFragment = "background.frag"
	Text               = "text"
)

// Entry points. The background stages live in separate modules and both
// use main; the text module carries both stages.
const (
	EntryMain     = "main"
	EntryVertex   = "vs_main"
	EntryFragment = "fs_main"
)

// SPIRVFile returns the installed file name for a background shader.
func SPIRVFile(name string) string { return name + ".spv" }

// Source returns the WGSL source of a built-in shader.
func Source(name string) (string, error) {
	b, err := sources.ReadFile(name + ".wgsl")
	if err != nil {
		return "", needle.Errorf(needle.KindShaderRead, "unknown shader %q", name)
	}
	return string(b), nil
}

// Compile compiles a built-in shader to SPIR-V bytes.
func Compile(name string) ([]byte, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, needle.NewError(needle.KindShaderRead, fmt.Errorf("failed to compile shader %s: %w", name, err))
	}
	return spirv, nil
}

// Words converts SPIR-V bytes to little-endian 32-bit words. A trailing
// partial word is zero-padded.
func Words(b []byte) []uint32 {
	words := make([]uint32, (len(b)+3)/4)
	for i := range words {
		var w uint32
		for j := 0; j < 4; j++ {
			if k := i*4 + j; k < len(b) {
				w |= uint32(b[k]) << (8 * j)
			}
		}
		words[i] = w
	}
	return words
}

// Read loads a SPIR-V binary, zero-padding it to a multiple of four
// bytes. Failures are ShaderRead errors.
func Read(path string) ([]byte, error) {
	// #nosec G304 -- shader paths come from the configuration directory
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, needle.NewError(needle.KindShaderRead, err)
	}
	if len(b) == 0 {
		return nil, needle.Errorf(needle.KindShaderRead, "%s is empty", path)
	}
	if pad := len(b) % 4; pad != 0 {
		b = append(b, make([]byte, 4-pad)...)
	}
	return b, nil
}

// Install compiles the background shaders into dir. Existing files are kept
// unless force is set. It returns the paths of the vertex and fragment
// binaries.
func Install(dir string, force bool) (vert, frag string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("shaders: failed to create %s: %w", dir, err)
	}
	paths := [2]string{
		filepath.Join(dir, SPIRVFile(BackgroundVertex)),
		filepath.Join(dir, SPIRVFile(BackgroundFragment)),
	}
	for i, name := range [2]string{BackgroundVertex, BackgroundFragment} {
		if !force {
			if _, err := os.Stat(paths[i]); err == nil {
				continue
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", "", fmt.Errorf("shaders: failed to stat %s: %w", paths[i], err)
			}
		}
		spirv, err := Compile(name)
		if err != nil {
			return "", "", err
		}
		if err := os.WriteFile(paths[i], spirv, 0o644); err != nil {
			return "", "", fmt.Errorf("shaders: failed to write %s: %w", paths[i], err)
		}
		needle.Logger().Debug("shaders: installed", "path", paths[i], "bytes", len(spirv))
	}
	return paths[0], paths[1], nil
}

// Module creates a shader module from SPIR-V bytes.
func Module(device hal.Device, name string, spirv []byte) (hal.ShaderModule, error) {
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  needle.Label(needle.LabelShader, name),
		Source: hal.ShaderSource{SPIRV: Words(spirv)},
	})
	if err != nil {
		return nil, needle.NewError(needle.KindShaderRead, fmt.Errorf("failed to create shader module %s: %w", name, err))
	}
	return m, nil
}
