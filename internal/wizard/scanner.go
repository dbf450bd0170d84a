package wizard

import (
	"bufio"
	"io"
	"strings"
)

// lineScanner reads answers from non-terminal input, one per line.
type lineScanner struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

// NewLineScanner returns a LineReader for piped input. Prompts are written
// to out.
func NewLineScanner(in io.Reader, out io.Writer) LineReader {
	return &lineScanner{sc: bufio.NewScanner(in), out: out}
}

func (s *lineScanner) SetPrompt(prompt string) { s.prompt = prompt }

func (s *lineScanner) Readline() (string, error) {
	_, _ = io.WriteString(s.out, s.prompt)
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	_, _ = io.WriteString(s.out, "\n")
	return strings.TrimRight(s.sc.Text(), "\r"), nil
}
