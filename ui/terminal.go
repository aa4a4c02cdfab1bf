package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/logrusorgru/aurora"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 50
)

type TerminalUI struct {
	level    int
	out      io.Writer
	in       *bufio.Reader
	au       aurora.Aurora
	terminal bool
	border   lipgloss.Style
}

// NewTerminalUI writes to stdout and reads from stdin. Colors and the
// spinner are only used when stdout is a terminal.
func NewTerminalUI() *TerminalUI {
	return NewTerminalUIWith(os.Stdout, os.Stdin, term.IsTerminal(int(os.Stdout.Fd())))
}

func NewTerminalUIWith(out io.Writer, in io.Reader, terminal bool) *TerminalUI {
	return &TerminalUI{
		out:      out,
		in:       bufio.NewReader(in),
		au:       aurora.NewAurora(terminal),
		terminal: terminal,
		border:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (u *TerminalUI) println(line string) {
	fmt.Fprintf(u.out, "%s%s\n", strings.Repeat(indentUnit, u.level), line)
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.println(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	u.println(u.au.Green(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	u.println(u.au.Yellow(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	u.println(u.au.Red(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Section(title string) {
	fmt.Fprintln(u.out)
	u.println(u.au.Bold(renderSection(title, sectionWidth)).String())
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	for _, line := range renderKeyValue(rows) {
		u.println(line)
	}
}

func (u *TerminalUI) Table(headers []string, rows [][]string) {
	border := func(s string) string { return s }
	if u.terminal {
		border = func(s string) string { return u.border.Render(s) }
	}
	for _, line := range renderTable(headers, rows, border) {
		u.println(line)
	}
}

func (u *TerminalUI) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(u.out, string(data))
	return err
}

func (u *TerminalUI) Spinner(msg string) func() {
	if !u.terminal {
		u.println(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		fmt.Fprintln(u.out)
	}
}

func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[y/N]"
	if defaultYes {
		options = "[Y/n]"
	}
	for {
		fmt.Fprintf(u.out, "%s%s %s > ", strings.Repeat(indentUnit, u.level), prompt, options)
		text, err := u.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(text))
		switch {
		case answer == "" && err != nil:
			// stdin closed, nothing more to read
			fmt.Fprintln(u.out)
			return defaultYes
		case answer == "":
			return defaultYes
		case answer == "y" || answer == "yes":
			return true
		case answer == "n" || answer == "no":
			return false
		}
		u.Error("please enter y or n")
	}
}

func (u *TerminalUI) Indent() UI {
	child := *u
	child.level++
	return &child
}
