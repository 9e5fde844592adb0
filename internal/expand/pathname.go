package expand

import (
	"os"
	"sort"
	"strings"

	"github.com/poshlang/posh/internal/glob"
)

// globFields implements spec §4.3 stage 4: pathname expansion. Each
// field eligible for globbing (built entirely from unquoted text and
// containing a pattern metacharacter) is matched against the
// filesystem; a pattern matching nothing is left unchanged, per POSIX
// ("if no matching pathnames are found, it shall be left unmodified").
func globFields(fields []Field, env Env) []Field {
	if env.NoGlob() {
		return fields
	}
	var out []Field
	for _, f := range fields {
		if !f.CanGlob || !glob.HasMeta(f.Text) {
			out = append(out, f)
			continue
		}
		matches := expandPathname(f.Text)
		if len(matches) == 0 {
			out = append(out, f)
			continue
		}
		for _, m := range matches {
			out = append(out, Field{Text: m, CanGlob: false})
		}
	}
	return out
}

// expandPathname matches pattern, a possibly multi-component path,
// against the filesystem rooted at the process's current directory
// (which tracks the shell's `cd` via os.Chdir), returning matches in
// sorted order the way a conforming pathname expansion must.
func expandPathname(pattern string) []string {
	absolute := strings.HasPrefix(pattern, "/")
	comps := glob.SplitPath(pattern)
	if absolute {
		comps = comps[1:]
	}

	dirs := []string{""}
	if absolute {
		dirs = []string{"/"}
	}
	for ci, comp := range comps {
		last := ci == len(comps)-1
		var next []string
		for _, dir := range dirs {
			if comp == "" {
				// A doubled '/' or trailing '/': keep the directory as is.
				next = append(next, joinDir(dir, ""))
				continue
			}
			if !glob.HasMeta(comp) {
				candidate := joinDir(dir, comp)
				if last {
					if _, err := os.Lstat(candPathOrDot(candidate)); err == nil {
						next = append(next, candidate)
					}
				} else {
					if info, err := os.Stat(candPathOrDot(candidate)); err == nil && info.IsDir() {
						next = append(next, candidate)
					}
				}
				continue
			}
			entries, err := os.ReadDir(candPathOrDot(dir))
			if err != nil {
				continue
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			sort.Strings(names)
			for _, name := range names {
				if strings.HasPrefix(name, ".") && !strings.HasPrefix(comp, ".") {
					continue // spec §4.3 stage 4: a leading '.' only matches an explicit leading '.' in the pattern
				}
				if !glob.Match(comp, name) {
					continue
				}
				candidate := joinDir(dir, name)
				if last {
					next = append(next, candidate)
					continue
				}
				if info, err := os.Stat(candPathOrDot(candidate)); err == nil && info.IsDir() {
					next = append(next, candidate)
				}
			}
		}
		dirs = next
		if len(dirs) == 0 {
			return nil
		}
	}
	sort.Strings(dirs)
	return dirs
}

func joinDir(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

func candPathOrDot(p string) string {
	if p == "" {
		return "."
	}
	return p
}
