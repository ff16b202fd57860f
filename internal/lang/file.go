// Package lang provides reference letter-frequency distributions.
package lang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"rotcrack/internal/alphabet"
)

type fileReference struct {
	Name    string             `toml:"name"`
	Letters map[string]float64 `toml:"letters"`
}

// Load reads a reference distribution from a TOML file. Every letter must
// be present under [letters]; the name falls back to the file name.
func Load(path string) (Reference, error) {
	var raw fileReference
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Reference{}, fmt.Errorf("failed to parse reference file: %w", err)
	}
	ref := Reference{Name: raw.Name}
	if ref.Name == "" {
		ref.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for ord := 0; ord < alphabet.Size; ord++ {
		letter := string(rune('a' + ord))
		share, ok := raw.Letters[letter]
		if !ok {
			return Reference{}, fmt.Errorf("%w: %s missing in %s", ErrIncomplete, letter, path)
		}
		ref.Freqs[ord] = share
	}
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// Save writes the reference as a TOML file readable by Load, creating the
// parent directory when needed.
func Save(ref Reference, path string) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "name = %q\n\n[letters]\n", ref.Name)
	for ord, share := range ref.Freqs {
		fmt.Fprintf(&b, "%c = %.6f\n", 'a'+rune(ord), share)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create reference dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write reference file: %w", err)
	}
	return nil
}

// Resolve turns a reference name into a distribution. The built-in name
// returns the English table; a value with a path separator or a .toml
// suffix is loaded as a file; anything else is looked up as <name>.toml
// inside dir.
func Resolve(name, dir string) (Reference, error) {
	if name == "" || name == English().Name {
		return English(), nil
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".toml") {
		return Load(name)
	}
	path := filepath.Join(dir, name+".toml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Reference{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Load(path)
}

// List names every available reference: the built-in table first, then the
// *.toml files under dir sorted by name. A missing dir is not an error.
func List(dir string) ([]string, error) {
	names := []string{English().Name}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return names, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".toml")
		if name != "" && name != English().Name {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])
	return names, nil
}
