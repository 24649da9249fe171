package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ForWindow generates a selector DSL addressing a window by its title and
// class. Both criteria are emitted when available, for robustness against
// title changes. At least one of the two must be non-empty.
func ForWindow(title, class string) (string, error) {
	if title == "" && class == "" {
		return "", fmt.Errorf("cannot generate window selector: both title and class are empty")
	}
	var criteria []string
	if title != "" {
		criteria = append(criteria, "title~"+Escape(title))
	}
	if class != "" {
		criteria = append(criteria, "class~"+Escape(class))
	}
	return "Window>" + strings.Join(criteria, ";"), nil
}

// ForControl generates a selector DSL addressing a control inside the
// window addressed by windowDSL. index is the control's position among
// same-class siblings and is emitted only when positive (the first match
// needs no disambiguation).
func ForControl(windowDSL, class, text string, index int) (string, error) {
	if class == "" && text == "" {
		return "", fmt.Errorf("cannot generate control selector: both class and text are empty")
	}
	var criteria []string
	if class != "" {
		criteria = append(criteria, "class~"+Escape(class))
	}
	if text != "" {
		criteria = append(criteria, "text~"+Escape(text))
	}
	if index > 0 {
		criteria = append(criteria, fmt.Sprintf("index~%d", index))
	}
	return windowDSL + ">Control>" + strings.Join(criteria, ";"), nil
}

// FromFile loads a selector from the first line of a file.
func FromFile(path string) (*Selector, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selector file: %w", err)
	}
	line, _, _ := strings.Cut(string(content), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("selector file %s is empty", path)
	}
	return Parse(line)
}

// ToFile writes the selector's DSL to a file, creating parent directories
// as needed.
func (s *Selector) ToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create selector directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(s.original), 0o644); err != nil {
		return fmt.Errorf("write selector file: %w", err)
	}
	return nil
}
