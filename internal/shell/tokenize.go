package shell

// Tokenize splits a command line into arguments. Whitespace separates
// arguments, double quotes make whitespace literal, and a backslash takes the
// next character literally. Quotes and escaping backslashes are removed.
func Tokenize(line string) ([]string, error) {
	var (
		args    []string
		current []byte
		inArg   bool
		quoted  bool
		quoteAt int
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\':
			if i+1 < len(line) {
				i++
				c = line[i]
			}
			current = append(current, c)
			inArg = true
		case c == '"':
			if !quoted {
				quoteAt = i
			}
			quoted = !quoted
			inArg = true
		case isSpace(c) && !quoted:
			if inArg {
				args = append(args, string(current))
				current = current[:0]
				inArg = false
			}
		default:
			current = append(current, c)
			inArg = true
		}
	}

	if quoted {
		return nil, &UnterminatedQuoteError{Offset: quoteAt}
	}
	if inArg {
		args = append(args, string(current))
	}
	return args, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
