// Package cli runs the interactive prompt used to try an index by hand.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const helpText = `commands:
  <prefix>         top completions for prefix
  :top <prefix>    best completion only
  :weight <word>   weight of an exact word
  :help            this text
  :quit            exit`

// InputHandler reads prefixes line by line and prints ranked suggestions.
type InputHandler struct {
	completer       suggest.Autocompletor
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	in              io.Reader
	out             io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.Autocompletor, minLength, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		out:             out,
	}
}

var errQuit = errors.New("quit")

// Start runs the prompt until input ends, :quit is entered or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "wordrank: type a prefix and press Enter (:help for commands)")
	scanner := bufio.NewScanner(h.in)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := h.handleLine(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleLine(line string) error {
	if !strings.HasPrefix(line, ":") {
		h.handleInput(line)
		return nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":q", ":quit", ":exit":
		return errQuit
	case ":h", ":help":
		fmt.Fprintln(h.out, helpText)
	case ":top":
		if !h.checkPrefix(arg) {
			return nil
		}
		if word := h.completer.TopMatch(arg); word != "" {
			fmt.Fprintf(h.out, "%s %s\n", wordStyle.Render(word), weightStyle.Render(utils.FormatWeight(h.completer.WeightOf(word))))
		} else {
			fmt.Fprintf(h.out, "no match for '%s'\n", arg)
		}
	case ":weight":
		fmt.Fprintf(h.out, "%s %s\n", wordStyle.Render(arg), weightStyle.Render(utils.FormatWeight(h.completer.WeightOf(arg))))
	default:
		fmt.Fprintf(h.out, "unknown command %s\n", cmd)
	}
	return nil
}

// checkPrefix validates the prefix length in characters and prints why a
// prefix was refused.
func (h *InputHandler) checkPrefix(prefix string) bool {
	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		fmt.Fprintf(h.out, "prefix too short: '%s'\n", prefix)
		return false
	}
	if n > h.maxPrefixLength {
		fmt.Fprintf(h.out, "prefix too long: '%s'\n", prefix)
		return false
	}
	return true
}

// handleInput validates a prefix and prints its ranked completions.
func (h *InputHandler) handleInput(prefix string) {
	if !h.checkPrefix(prefix) {
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		fmt.Fprintf(h.out, "no results for '%s'\n", prefix)
		return
	}

	start := time.Now()
	log.Debug("Processing request for", "prefix", prefix)
	words, err := h.completer.TopMatches(prefix, h.suggestLimit)
	if err != nil {
		log.Errorf("Completing %q: %v", prefix, err)
		return
	}
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(words) == 0 {
		fmt.Fprintf(h.out, "no suggestions for '%s'\n", prefix)
		return
	}

	fmt.Fprintf(h.out, "%d suggestions for '%s':\n", len(words), prefix)
	for i, w := range words {
		weight := utils.FormatWeight(h.completer.WeightOf(w))
		fmt.Fprintf(h.out, "%2d. %-30s %12s\n", i+1, wordStyle.Render(w), weightStyle.Render(weight))
	}
}
