// Package printers renders task state for the terminal.
package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/tally/pkg/task"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69-f8b9-9dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

// Tasks prints the task list in display order with counts and the most
// recent log time.
func (pp *PrettyPrint) Tasks(s task.State) {
	if len(s.Tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 60
	if pp.ShowID {
		table.AddRow("ID", "TASK", "COUNT", "LAST LOGGED")
	} else {
		table.AddRow("TASK", "COUNT", "LAST LOGGED")
	}
	for _, t := range s.Tasks {
		last := "never"
		if events := t.EventsDescending(); len(events) > 0 {
			last = time.UnixMilli(events[0]).Local().Format("Jan 2 15:04")
		}
		if pp.ShowID {
			table.AddRow(t.ID, t.Name, len(t.Events), last)
		} else {
			table.AddRow(t.Name, len(t.Events), last)
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

// Events prints one task's events most recent first.
func (pp *PrettyPrint) Events(t task.Task) {
	events := t.EventsDescending()
	if len(events) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no events\n\n")
		return
	}
	c := color.New()
	for _, ev := range events {
		_, _ = c.Printf("  %s\n", time.UnixMilli(ev).Local().Format(time.RFC822))
	}
	_, _ = c.Println("")
}

// Status prints a short status label the way mutations report outcomes.
func (pp *PrettyPrint) Status(label string) {
	f := color.New(color.Faint)
	_, _ = f.Printf("%s\n", label)
}
