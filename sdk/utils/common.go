// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// ErrCancelled is returned by interactive prompts when the user declines.
var ErrCancelled = errors.New("cancelled by user")

func TranslateFormat(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatShort
	}
}

// PrintOutput renders v as json or yaml; the short format is delegated to
// short, which may be nil to fall back to json.
func PrintOutput(w io.Writer, format string, v any, short func(io.Writer) error) error {
	switch TranslateFormat(format) {
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatShort:
		if short != nil {
			return short(w)
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WaitForConfirmation asks a y/n question; empty input means yes.
func WaitForConfirmation(in io.Reader, out io.Writer, msg string) error {
	buf := bufio.NewReader(in)
	for {
		fmt.Fprint(out, msg)
		userInput, err := buf.ReadString('\n')
		if err != nil && userInput == "" {
			return fmt.Errorf("error reading user input: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(userInput)) {
		case "y", "":
			return nil
		case "n":
			return ErrCancelled
		default:
			fmt.Fprintln(out, "Invalid input, must be y or n")
		}
	}
}

// SelectIndex prints a numbered list and reads a 1-based choice. An empty
// answer or "q" cancels.
func SelectIndex(in io.Reader, out io.Writer, title string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("nothing to select")
	}
	fmt.Fprintln(out, title)
	for i, it := range items {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, it)
	}
	buf := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "Select 1-%d (q to quit): ", len(items))
		userInput, err := buf.ReadString('\n')
		if err != nil && userInput == "" {
			return -1, fmt.Errorf("error reading user input: %w", err)
		}
		choice := strings.TrimSpace(userInput)
		if choice == "" || strings.EqualFold(choice, "q") {
			return -1, ErrCancelled
		}
		n, convErr := strconv.Atoi(choice)
		if convErr == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintf(out, "Invalid choice %q\n", choice)
		if err != nil {
			return -1, ErrCancelled
		}
	}
}

// Truncate shortens s to n runes for table output.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
