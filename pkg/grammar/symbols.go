package grammar

import "github.com/yaklabco/g4fmt/pkg/source"

// Symbol describes a top-level rule for symbol listings.
type Symbol struct {
	Name string
	Kind RuleKind

	// Index is the rule's ordinal among all rules of the document.
	Index int

	// Position is where the rule's definition starts.
	Position source.Position
}

// Symbols lists the document's rules in source order.
func (d *Document) Symbols() []Symbol {
	var symbols []Symbol
	index := 0

	//nolint:errcheck,revive // the callback never fails
	Walk(d, func(_ int, unit *Unit) error {
		if unit.Kind != UnitRule {
			return nil
		}
		symbols = append(symbols, Symbol{
			Name:     unit.Rule.Name,
			Kind:     unit.Rule.Kind,
			Index:    index,
			Position: d.Lines.Position(unit.Span.Start),
		})
		index++
		return nil
	})

	return symbols
}

// RuleAt returns the name and index of the rule whose span contains pos.
// It returns "" and -1 when pos is outside every rule.
func (d *Document) RuleAt(pos source.Position) (string, int) {
	offset, ok := d.Lines.Offset(pos)
	if !ok {
		return "", -1
	}

	index := 0
	for _, unit := range d.Units {
		if unit.Kind != UnitRule {
			continue
		}
		if unit.Span.Contains(offset) {
			return unit.Rule.Name, index
		}
		if unit.Span.Start > offset {
			break
		}
		index++
	}
	return "", -1
}
