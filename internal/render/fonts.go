package render

import (
	"path/filepath"
	"strings"
)

// ResolveFonts maps user-supplied font file names to absolute paths inside
// fontsDir. Resolution is all-or-nothing: the first failure aborts the whole
// request and partial lists are never returned.
//
// Checks run in a fixed order:
//
//  1. a name containing a path separator is rejected before any filesystem
//     call;
//  2. the joined path is canonicalized against the real filesystem, so ".."
//     segments and symlinks are resolved; a name that does not resolve is a
//     plain "font not found";
//  3. the canonical path must be prefixed by the canonical fonts directory.
//     The prefix check runs only on resolved paths.
func ResolveFonts(fontsDir string, names []string) ([]string, *Error) {
	if len(names) == 0 {
		return nil, nil
	}

	// Fonts are an opt-in server capability.
	if fontsDir == "" {
		return nil, FontsNotAllowed()
	}

	resolved := make([]string, 0, len(names))
	for _, name := range names {
		if strings.ContainsAny(name, `/\`) {
			return nil, FontsNotAllowed()
		}

		candidate := filepath.Join(fontsDir, name)
		canonical, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			return nil, Validationf("font not found: %s", name)
		}
		canonical, err = filepath.Abs(canonical)
		if err != nil {
			return nil, Validationf("font not found: %s", name)
		}

		if !pathWithin(fontsDir, canonical) {
			return nil, FontsNotAllowed()
		}
		resolved = append(resolved, canonical)
	}
	return resolved, nil
}

// pathWithin reports whether path is root itself or lexically contained in
// root. Both arguments must already be canonical absolute paths.
func pathWithin(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
