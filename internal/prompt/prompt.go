// Package prompt asks the operator interactive questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

// ErrInvalidChoice is returned for an answer that is not one of the menu codes.
var ErrInvalidChoice = errors.New("invalid menu choice")

// ErrNoAnswer is returned when the input ends before a valid answer is read.
var ErrNoAnswer = errors.New("no menu choice given")

var titleStyle = lipgloss.NewStyle().Bold(true)

// MenuItem is one selectable option.
type MenuItem struct {
	Code  string
	Label string
	Key   core.SortKey
}

// Menu is a numbered list of options answered by typing a code.
type Menu struct {
	Title string
	Items []MenuItem
}

// SortMenu offers the sort orders for valid records.
var SortMenu = Menu{
	Title: "Sort valid records",
	Items: []MenuItem{
		{Code: "1", Label: "Sort valid records by weight", Key: core.SortByWeight},
		{Code: "2", Label: "Sort valid records by age", Key: core.SortByAge},
		{Code: "0", Label: "Do not sort valid records", Key: core.SortNone},
	},
}

// Render writes the menu options to w.
func (m Menu) Render(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render(m.Title))
	for _, item := range m.Items {
		fmt.Fprintf(w, "%s - %s\n", item.Code, item.Label)
	}
}

// Choose maps an answer to a sort key. Surrounding whitespace is ignored.
func (m Menu) Choose(answer string) (core.SortKey, error) {
	answer = strings.TrimSpace(answer)
	for _, item := range m.Items {
		if item.Code == answer {
			return item.Key, nil
		}
	}
	return core.SortNone, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
}

// Ask renders the menu and reads answers from in until one is valid.
// Invalid answers are reported on out and the question is repeated.
// It fails only when in is exhausted or unreadable.
func (m Menu) Ask(in io.Reader, out io.Writer) (core.SortKey, error) {
	m.Render(out)
	fmt.Fprint(out, "Enter your choice: ")

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		key, err := m.Choose(sc.Text())
		if err == nil {
			return key, nil
		}
		fmt.Fprint(out, "Invalid choice, try again: ")
	}
	if err := sc.Err(); err != nil {
		return core.SortNone, fmt.Errorf("read menu choice: %w", err)
	}
	return core.SortNone, ErrNoAnswer
}

// SortKey asks the operator for a sort order using SortMenu.
func SortKey(in io.Reader, out io.Writer) (core.SortKey, error) {
	return SortMenu.Ask(in, out)
}
