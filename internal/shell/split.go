package shell

// Line is a command line split at its last path separator.
type Line struct {
	// Path is everything before the separator. It is empty both when the
	// separator is the first character and when there is none; HasPath
	// tells the two apart.
	Path    string
	Command string
	HasPath bool
}

// Split cuts buf at the last '/' that is neither quoted nor escaped.
func Split(buf string) Line {
	last := -1
	quoted := false
	escaped := false
	for i := 0; i < len(buf); i++ {
		switch c := buf[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == '/' && !quoted:
			last = i
		}
	}
	if last < 0 {
		return Line{Command: buf}
	}
	return Line{Path: buf[:last], Command: buf[last+1:], HasPath: true}
}

// Merge joins a split line back together. Merge(Split(s)) == s.
func Merge(l Line) string {
	if !l.HasPath {
		return l.Command
	}
	return l.Path + "/" + l.Command
}

func (l Line) String() string { return Merge(l) }
