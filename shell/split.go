package shell

// Command is one parsed CLI invocation within a script.
//
// Tokens[0].Text is the literal CLI name. End is the end of the whole
// segment, which may extend past the last token so trailing whitespace at
// the cursor still belongs to the command.
type Command struct {
	Tokens []Token
	Start  int
	End    int
}

// SplitCommands cuts normalized text into command segments at top-level
// separators (';', newline, '|', '||', '&&') and keeps the segments whose
// first token is exactly cliName (case-sensitive).
//
// Separator detection runs through the same quote and escape state as the
// tokenizer, so separators inside quotes do not split.
func SplitCommands(text string, cliName string) []Command {
	var commands []Command

	segStart := 0
	state := stateNormal
	i, n := 0, len(text)

	flush := func(end int) {
		if cmd, ok := segmentCommand(text, segStart, end, cliName); ok {
			commands = append(commands, cmd)
		}
	}

	for i < n {
		c := text[i]
		switch state {
		case stateNormal:
			switch {
			case c == '\\' && i+1 < n:
				i += 2
				continue
			case c == '\'':
				state = stateSingleQuote
			case c == '"':
				state = stateDoubleQuote
			case c == ';' || c == '\n':
				flush(i)
				i++
				segStart = i
				continue
			case c == '|':
				flush(i)
				if i+1 < n && text[i+1] == '|' {
					i += 2
				} else {
					i++
				}
				segStart = i
				continue
			case c == '&' && i+1 < n && text[i+1] == '&':
				flush(i)
				i += 2
				segStart = i
				continue
			}
			i++
		case stateSingleQuote:
			if c == '\'' {
				state = stateNormal
			}
			i++
		case stateDoubleQuote:
			switch {
			case c == '\\' && i+1 < n:
				i += 2
				continue
			case c == '"':
				state = stateNormal
				i++
			default:
				i++
			}
		}
	}
	flush(n)

	return commands
}

// segmentCommand tokenizes one segment and returns it as a Command when its
// first token is the CLI's literal name.
func segmentCommand(text string, start, end int, cliName string) (Command, bool) {
	tokens := tokenizeAt(text[start:end], start)
	if len(tokens) == 0 || tokens[0].Text != cliName {
		return Command{}, false
	}
	return Command{
		Tokens: tokens,
		Start:  tokens[0].Start,
		End:    end,
	}, true
}

// CommandAt returns the command whose span inclusively contains offset,
// or nil when the offset is outside every command.
func CommandAt(commands []Command, offset int) *Command {
	for i := range commands {
		cmd := &commands[i]
		if cmd.Start <= offset && offset <= cmd.End {
			return cmd
		}
	}
	return nil
}
