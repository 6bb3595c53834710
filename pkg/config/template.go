package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/g4fmt/pkg/options"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every formatting option with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Number of parallel workers (0 = auto)
# jobs: 0

# File extensions formatted when walking directories
# extensions:
#   - ".g4"

# File patterns to ignore (glob patterns)
# ignore:
#   - "build/**"

# Formatting options; $antlr-format directives in a grammar refine them
options:
`)

	for _, desc := range options.Descriptors() {
		fmt.Fprintf(&buf, "  # %s: %v\n", desc.Key, desc.Default())
	}

	return buf.Bytes()
}

func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# g4fmt configuration - Full Template
# See: https://github.com/yaklabco/g4fmt
#
# This template lists every formatting option with its default value.

# Number of parallel workers (0 = auto based on CPU cores)
jobs: 0

# File extensions formatted when walking directories
extensions:
  - ".g4"

# File patterns to ignore (glob patterns)
ignore:
  - ".git/**"

# Backup configuration for --write
backups:
  enabled: true
  mode: sidecar

# Formatting options; $antlr-format directives in a grammar refine them
options:
`)

	for _, desc := range options.Descriptors() {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(desc.Description, commentWrapWidth))
		switch desc.Kind {
		case options.KindEnum:
			fmt.Fprintf(&buf, "  # One of: %s\n", strings.Join(desc.Values, ", "))
		case options.KindInt:
			fmt.Fprintf(&buf, "  # Minimum: %d\n", desc.Min)
		case options.KindBool:
		}
		fmt.Fprintf(&buf, "  %s: %v\n", desc.Key, desc.Default())
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

func templateToJSON() ([]byte, error) {
	cfg := map[string]any{
		"jobs":       0,
		"extensions": DefaultExtensions(),
		"ignore":     []string{".git/**"},
		"backups": map[string]any{
			"enabled": true,
			"mode":    "sidecar",
		},
		"options": options.Default().Map(),
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# g4fmt configuration
# See: https://github.com/yaklabco/g4fmt`
}
