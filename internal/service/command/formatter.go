package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter builds compact single-message diagnostic replies.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("%s: %s", label, value)
}

// List joins items after a title on one line.
func (f *ResponseFormatter) List(title string, items []string) string {
	if len(items) == 0 {
		return title
	}
	return title + " " + strings.Join(items, " ")
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("Usage: test %s", command)
}
