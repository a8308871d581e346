package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/multierr"

	"github.com/hamed0406/healthmon/internal/domain"
)

// StripDecoration removes terminal escape sequences from text.
func StripDecoration(text string) string {
	return ansi.Strip(text)
}

// Persist appends the undecorated text to path. The file is opened and
// closed on every call so nothing is held between ticks.
func Persist(text, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	clean := StripDecoration(text)
	if !strings.HasSuffix(clean, "\n") {
		clean += "\n"
	}
	_, werr := f.WriteString(clean + "\n")
	if err := multierr.Append(werr, f.Close()); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrPersist, path, err)
	}
	return nil
}
