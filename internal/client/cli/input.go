package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// clearValue typed at a prompt with a default empties the field.
const clearValue = "-"

func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask prompts for one value. An empty answer keeps def.
func (a *App) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	line, err := a.readLine()
	if err != nil {
		return "", err
	}
	switch line {
	case "":
		return def, nil
	case clearValue:
		return "", nil
	}
	return line, nil
}

func (a *App) askPassword(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	if a.fd >= 0 && isTerminal(a.fd) {
		pw, err := readPassword(a.fd)
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.readLine()
}

func (a *App) confirm(question string) (bool, error) {
	fmt.Fprintf(a.out, "%s (y/N): ", question)
	line, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", "是":
		return true, nil
	}
	return false, nil
}

func parseID(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, usageErr("缺少 ID")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, usageErr("无效的 ID %q", args[0])
	}
	return uint(id), nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
