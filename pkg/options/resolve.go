package options

import (
	"github.com/yaklabco/g4fmt/pkg/grammar"
)

// Snapshot is the configuration in effect at one unit.
type Snapshot struct {
	Options Options

	// Disabled is set inside an "off" region; such units are passed through
	// unchanged.
	Disabled bool
}

// Snapshots holds the configuration in effect at every unit of a document.
type Snapshots struct {
	base  Snapshot
	final Snapshot
	at    []Snapshot
}

// Resolve walks the document's units in order, starting from base, and
// records the options in effect at each unit. A directive unit sees the
// options in effect before it; its settings apply from the next unit on.
// Settings a directive does not name are inherited.
//
// Unknown keys, invalid values and malformed directives are skipped and
// returned as *UnknownOptionWarning values.
func Resolve(doc *grammar.Document, base Options) (*Snapshots, []error) {
	snaps := &Snapshots{
		base: Snapshot{Options: base},
		at:   make([]Snapshot, len(doc.Units)),
	}
	current := snaps.base
	var warnings []error

	for i, unit := range doc.Units {
		snaps.at[i] = current
		if unit.Kind != grammar.UnitDirective {
			continue
		}

		position := doc.Lines.Position(unit.Span.Start)
		directive, err := ParseDirective(unit.Comment.Text)
		if err != nil {
			warnings = append(warnings, &UnknownOptionWarning{
				Value:    unit.Comment.Text,
				Position: position,
				Err:      err,
			})
			continue
		}

		for _, setting := range directive.Settings {
			if err := current.apply(setting, base); err != nil {
				warnings = append(warnings, &UnknownOptionWarning{
					Key:      setting.Key,
					Value:    valueString(setting.Value),
					Position: position,
					Err:      err,
				})
			}
		}
	}

	snaps.final = current
	return snaps, warnings
}

func (s *Snapshot) apply(setting Setting, base Options) error {
	switch setting.Command {
	case CommandOff:
		s.Disabled = true
		return nil
	case CommandOn:
		s.Disabled = false
		return nil
	case CommandReset:
		s.Options = base
		return nil
	}
	return s.Options.Set(setting.Key, setting.Value)
}

func valueString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// At returns the configuration in effect at unit i. Indexes past the last
// unit return the configuration after the last unit.
func (s *Snapshots) At(i int) Snapshot {
	if i < 0 {
		return s.base
	}
	if i >= len(s.at) {
		return s.final
	}
	return s.at[i]
}

// Base returns the configuration the walk started from.
func (s *Snapshots) Base() Snapshot {
	return s.base
}
