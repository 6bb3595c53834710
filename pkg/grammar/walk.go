package grammar

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(index int, unit *Unit) error

// Walk visits the document's units in source order.
func Walk(doc *Document, walkFunc WalkFunc) error {
	if doc == nil {
		return nil
	}
	for i, unit := range doc.Units {
		if err := walkFunc(i, unit); err != nil {
			return err
		}
	}
	return nil
}

// WalkElements performs a pre-order traversal of the elements of alts,
// descending into sub-blocks. Returning false from fn stops the walk.
func WalkElements(alts []*Alternative, fn func(elem *Element) bool) bool {
	for _, alt := range alts {
		for _, elem := range alt.Elements {
			if !fn(elem) {
				return false
			}
			if elem.Kind == ElemBlock && !WalkElements(elem.Block, fn) {
				return false
			}
		}
	}
	return true
}

// References returns the distinct rule and token names referenced by a
// rule's right-hand side, in order of first use.
func (r *Rule) References() []string {
	seen := make(map[string]struct{})
	var refs []string

	WalkElements(r.Alternatives, func(elem *Element) bool {
		if elem.Kind != ElemTerm || !isName(elem.Text) {
			return true
		}
		if _, ok := seen[elem.Text]; !ok {
			seen[elem.Text] = struct{}{}
			refs = append(refs, elem.Text)
		}
		return true
	})

	return refs
}

func isName(text string) bool {
	if text == "" {
		return false
	}
	for i, r := range text {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
