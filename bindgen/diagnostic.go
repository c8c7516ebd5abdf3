package bindgen

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/ardanlabs/bindgen/cast"
)

// DiagnosticKind categorizes a problem found while generating.
type DiagnosticKind string

const (
	// UnsupportedShape: a construct outside the recognized shapes for its
	// declaration or expression kind.
	UnsupportedShape DiagnosticKind = "unsupported-shape"

	// UnresolvedSymbol: a type lookup needed a symbol that was not
	// registered yet.
	UnresolvedSymbol DiagnosticKind = "unresolved-symbol"

	// InvariantViolation: a node shape the algorithm never expects.
	InvariantViolation DiagnosticKind = "invariant-violation"
)

// Sentinels wrapped by every Diagnostic of the matching kind.
var (
	ErrUnsupportedShape   = errors.New("unsupported shape")
	ErrUnresolvedSymbol   = errors.New("unresolved symbol")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Diagnostic records one non-fatal problem. The generator substitutes a
// best-effort fallback at the site and carries on.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Subject  string // declaration or type spelling the problem is about
	Location cast.Location
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s", d.Kind, d.Message)
	if d.Subject != "" {
		msg += fmt.Sprintf(" (%s)", d.Subject)
	}
	if loc := d.Location.String(); loc != "" {
		msg = loc + ": " + msg
	}
	return msg
}

// Unwrap exposes the kind sentinel so errors.Is(d, ErrUnresolvedSymbol)
// works.
func (d *Diagnostic) Unwrap() error {
	switch d.Kind {
	case UnsupportedShape:
		return ErrUnsupportedShape
	case UnresolvedSymbol:
		return ErrUnresolvedSymbol
	default:
		return ErrInvariantViolation
	}
}

// FormatTerminal renders the diagnostic with colors for a terminal.
func (d *Diagnostic) FormatTerminal() string {
	var kind string
	switch d.Kind {
	case UnsupportedShape:
		kind = pterm.Yellow(string(d.Kind))
	case UnresolvedSymbol:
		kind = pterm.LightRed(string(d.Kind))
	default:
		kind = pterm.Red(string(d.Kind))
	}

	msg := fmt.Sprintf("%s %s", kind, d.Message)
	if d.Subject != "" {
		msg += " " + pterm.LightCyan(d.Subject)
	}
	if loc := d.Location.String(); loc != "" {
		msg = pterm.Gray(loc) + " " + msg
	}
	return msg
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []*Diagnostic

func (ds *Diagnostics) add(kind DiagnosticKind, subject, format string, args ...any) {
	*ds = append(*ds, &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Subject: subject,
	})
}

// Count returns the number of diagnostics of the given kind.
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Err joins the diagnostics into one error, nil when there are none.
// errors.Is matches the sentinel of every joined diagnostic.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}
