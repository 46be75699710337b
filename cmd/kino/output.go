package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ahror172/kino/internal/model"
)

const (
	colorReset = "\033[0m"
	colorDim   = "\033[2m"
	colorCyan  = "\033[36m"
)

// shouldUseColor учитывает NO_COLOR, CLICOLOR_FORCE, CLICOLOR и то, что w
// является терминалом.
func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printChannels печатает реестр по порядку; ссылки не проверяются гейтом
// и помечаются отдельно.
func printChannels(w io.Writer, channels []string, color bool) {
	if len(channels) == 0 {
		fmt.Fprintln(w, "no channels")
		return
	}
	for i, ch := range channels {
		name, note := ch, ""
		if model.IsLink(ch) {
			note = " (link, not checked)"
		}
		if color {
			name = colorCyan + name + colorReset
			if note != "" {
				note = colorDim + note + colorReset
			}
		}
		fmt.Fprintf(w, "%2d. %s%s\n", i+1, name, note)
	}
}
