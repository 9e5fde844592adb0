package expand

import "strings"

// splitIFSChars partitions IFS into its whitespace and non-whitespace
// characters, since spec §4.3 stage 3 treats the two differently: runs
// of IFS whitespace collapse to a single delimiter (and are trimmed at
// field edges), while each IFS non-whitespace character delimits on its
// own, producing an empty field between two adjacent ones.
func splitIFSChars(ifs string) (ws, nonws string) {
	for i := 0; i < len(ifs); i++ {
		c := ifs[i]
		if c == ' ' || c == '\t' || c == '\n' {
			ws += string(c)
		} else {
			nonws += string(c)
		}
	}
	return ws, nonws
}

// splitFields implements spec §4.3 stage 3: field splitting of the
// unquoted portions of a word's expansion on IFS, while quoted/escaped
// segments (segment.protect) are carried through untouched and a
// segment.boundary forces a field break (the per-positional-parameter
// split a quoted "$@" needs regardless of IFS).
func splitFields(segs []segment, ifs string) []Field {
	if len(segs) == 0 {
		return nil
	}
	ifsWS, ifsNonWS := splitIFSChars(ifs)

	var fields []Field
	var cur strings.Builder
	hasContent := false
	hasProtected := false

	flush := func() {
		fields = append(fields, Field{
			Text:    cur.String(),
			CanGlob: !hasProtected,
		})
		cur.Reset()
		hasContent = false
		hasProtected = false
	}

	for _, seg := range segs {
		if seg.protect {
			cur.WriteString(seg.text)
			hasContent = true
			hasProtected = true
			if seg.boundary {
				flush()
			}
			continue
		}

		text := seg.text
		i := 0
		for i < len(text) {
			c := text[i]
			switch {
			case strings.IndexByte(ifsWS, c) >= 0:
				if hasContent {
					flush()
				}
				for i < len(text) && strings.IndexByte(ifsWS, text[i]) >= 0 {
					i++
				}
			case strings.IndexByte(ifsNonWS, c) >= 0:
				flush()
				i++
				for i < len(text) && strings.IndexByte(ifsWS, text[i]) >= 0 {
					i++
				}
			default:
				cur.WriteByte(c)
				hasContent = true
				i++
			}
		}
		if seg.boundary {
			flush()
		}
	}
	if hasContent {
		flush()
	}
	return fields
}
