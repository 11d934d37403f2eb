package cssfit

import (
	"errors"
	"slices"
)

var (
	// ErrUnsupportedFormat is returned by a codec that cannot interpret the shape of
	// the value it was given.
	ErrUnsupportedFormat = errors.New("unsupported value format")
	// ErrNoContainer is returned by New when Config.Container is nil.
	ErrNoContainer = errors.New("container element is required")
	// ErrNoDocument is returned by New when Config.Document is nil.
	ErrNoDocument = errors.New("document is required")
)

// Codec converts between authored values and their rendered form.
//
// Calculate must be a pure function of its inputs. Generate is a best-effort inverse
// used for auto-discovery; it reports false when the rendered string has nothing to
// track.
type Codec interface {
	Calculate(value Value, scale float64, bounds *Bounds) (string, error)
	Generate(rendered string) (Value, bool)
}

// Parser binds a Codec to the style identifiers it handles.
type Parser struct {
	ID     string
	Styles []string
	Codec  Codec
}

// Handles reports whether the parser is registered for the style identifier.
func (p *Parser) Handles(style string) bool {
	return slices.Contains(p.Styles, style)
}

// Clone returns a copy whose style list can be modified without touching p. Codecs
// are stateless and shared.
func (p *Parser) Clone() *Parser {
	return &Parser{
		ID:     p.ID,
		Styles: slices.Clone(p.Styles),
		Codec:  p.Codec,
	}
}
