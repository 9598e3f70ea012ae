// Package fonts finds font files by name.
//
// Fonts are looked up in the user font directory first, then in the
// platform's system font directories. Names match file names with or
// without their extension, ignoring case.
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/cases"

	"github.com/gogpu/needle"
)

// DefaultName is the name of the built-in fallback font.
const DefaultName = "Go Regular"

// Source is a resolved font: either its bytes or a path to read them from.
type Source struct {
	Name string
	Data []byte
	Path string
}

// Default returns the built-in fallback font.
func Default() Source {
	return Source{Name: DefaultName, Data: goregular.TTF}
}

// Bytes returns the font data, reading Path when Data is empty.
func (s Source) Bytes() ([]byte, error) {
	if len(s.Data) > 0 {
		return s.Data, nil
	}
	if s.Path == "" {
		return nil, needle.Errorf(needle.KindFontRead, "font %q has no data", s.Name)
	}
	// #nosec G304 -- font path comes from the user's configuration
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, needle.NewError(needle.KindFontRead, err)
	}
	return data, nil
}

// Font is one discovered font file.
type Font struct {
	// Name is the file name without extension.
	Name string
	Path string
	// User is true for fonts in the user font directory.
	User bool
}

// Finder resolves font names against a set of directories.
type Finder struct {
	userDir    string
	systemDirs []string
}

// NewFinder returns a Finder searching userDir, then the system font
// directories. An empty userDir is skipped.
func NewFinder(userDir string) *Finder {
	return &Finder{userDir: userDir, systemDirs: SystemDirs()}
}

// NewFinderDirs returns a Finder over explicit directories. Used by tests
// and by callers that want to restrict the search.
func NewFinderDirs(userDir string, systemDirs ...string) *Finder {
	return &Finder{userDir: userDir, systemDirs: systemDirs}
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf", ".ttc":
		return true
	}
	return false
}

// Fonts lists every font file the Finder can see. User fonts come first;
// each group is sorted by name. Unreadable directories are skipped.
func (f *Finder) Fonts() []Font {
	var out []Font
	if f.userDir != "" {
		out = append(out, scan(f.userDir, true)...)
	}
	for _, dir := range f.systemDirs {
		out = append(out, scan(dir, false)...)
	}
	return out
}

func scan(dir string, user bool) []Font {
	var found []Font
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Missing roots and unreadable subtrees are not fatal.
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isFontFile(d.Name()) {
			return nil
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		found = append(found, Font{Name: name, Path: path, User: user})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		needle.Logger().Warn("fonts: scan failed", "dir", dir, "error", err)
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}

// Resolve finds the font called name. An existing file path is returned
// as is. Otherwise the first font whose file name matches, with or without
// extension and ignoring case, wins. A miss is a FontRead error that lists
// the closest names.
func (f *Finder) Resolve(name string) (Source, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Source{}, needle.Errorf(needle.KindFontRead, "empty font name")
	}
	if filepath.IsAbs(name) {
		if st, err := os.Stat(name); err == nil && !st.IsDir() {
			return Source{Name: filepath.Base(name), Path: name}, nil
		}
	}

	fold := cases.Fold()
	want := fold.String(name)
	fonts := f.Fonts()
	for _, ft := range fonts {
		if fold.String(ft.Name) == want || fold.String(filepath.Base(ft.Path)) == want {
			return Source{Name: ft.Name, Path: ft.Path}, nil
		}
	}

	if s := suggest(name, fonts, 3); len(s) > 0 {
		return Source{}, needle.Errorf(needle.KindFontRead, "font %q not found, did you mean %s?", name, strings.Join(s, ", "))
	}
	return Source{}, needle.Errorf(needle.KindFontRead, "font %q not found", name)
}

// Suggest returns up to n font names that fuzzily match name, best first.
func (f *Finder) Suggest(name string, n int) []string {
	return suggest(name, f.Fonts(), n)
}

type fontNames []Font

func (s fontNames) String(i int) string { return s[i].Name }
func (s fontNames) Len() int            { return len(s) }

func suggest(name string, fonts []Font, n int) []string {
	if n <= 0 || len(fonts) == 0 {
		return nil
	}
	matches := fuzzy.FindFrom(name, fontNames(fonts))
	seen := make(map[string]bool)
	var out []string
	for _, m := range matches {
		if seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		out = append(out, m.Str)
		if len(out) == n {
			break
		}
	}
	return out
}

// ResolveOrDefault resolves name and falls back to the built-in font when
// name is empty or cannot be found. The miss is logged, not returned.
func (f *Finder) ResolveOrDefault(name string) Source {
	if strings.TrimSpace(name) == "" {
		return Default()
	}
	src, err := f.Resolve(name)
	if err != nil {
		needle.Logger().Warn("fonts: falling back to default font", "font", name, "error", err)
		return Default()
	}
	needle.Logger().Info("fonts: using font", "font", src.Name, "path", src.Path)
	return src
}
