package template

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

const declarationTemplate = `export const abi = {{.Literal}} as const
`

var (
	declaration    = template.Must(template.New("declaration").Parse(declarationTemplate))
	identifierKey  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	indentUnit     = "  "
	stringEscapers = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
		"\u2028", `\u2028`,
		"\u2029", `\u2029`,
	)
)

// DeclarationRendererAdapter renders interface descriptors as typed constant declarations
type DeclarationRendererAdapter struct{}

// NewDeclarationRendererAdapter creates a new declaration renderer
func NewDeclarationRendererAdapter(cfg *config.RuntimeConfig) *DeclarationRendererAdapter {
	return &DeclarationRendererAdapter{}
}

// RenderDeclaration serializes abi into a literal and wraps it in the exported constant
func (r *DeclarationRendererAdapter) RenderDeclaration(ctx context.Context, abi models.InterfaceDescriptor) ([]byte, error) {
	literal, err := Literal(abi)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := declaration.Execute(&buf, struct{ Literal string }{literal}); err != nil {
		return nil, fmt.Errorf("failed to execute declaration template: %w", err)
	}
	return buf.Bytes(), nil
}

// Literal prints a JSON document as a fully expanded JavaScript literal,
// preserving key order.
func Literal(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := &literalPrinter{dec: dec}
	if err := p.value(0); err != nil {
		return "", fmt.Errorf("invalid interface descriptor: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("invalid interface descriptor: trailing data")
	}
	return p.buf.String(), nil
}

type literalPrinter struct {
	dec *json.Decoder
	buf strings.Builder
}

func (p *literalPrinter) value(depth int) error {
	tok, err := p.dec.Token()
	if err != nil {
		return err
	}
	return p.token(tok, depth)
}

func (p *literalPrinter) token(tok json.Token, depth int) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			return p.array(depth)
		case '{':
			return p.object(depth)
		default:
			return fmt.Errorf("unexpected %q", v)
		}
	case string:
		p.quote(v)
	case json.Number:
		p.buf.WriteString(v.String())
	case bool:
		if v {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}
	case nil:
		p.buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func (p *literalPrinter) array(depth int) error {
	if !p.dec.More() {
		p.buf.WriteString("[]")
		_, err := p.dec.Token()
		return err
	}

	p.buf.WriteString("[\n")
	for p.dec.More() {
		p.indent(depth + 1)
		if err := p.value(depth + 1); err != nil {
			return err
		}
		if p.dec.More() {
			p.buf.WriteByte(',')
		}
		p.buf.WriteByte('\n')
	}
	if _, err := p.dec.Token(); err != nil {
		return err
	}
	p.indent(depth)
	p.buf.WriteByte(']')
	return nil
}

func (p *literalPrinter) object(depth int) error {
	if !p.dec.More() {
		p.buf.WriteString("{}")
		_, err := p.dec.Token()
		return err
	}

	p.buf.WriteString("{\n")
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		p.indent(depth + 1)
		if identifierKey.MatchString(key) {
			p.buf.WriteString(key)
		} else {
			p.quote(key)
		}
		p.buf.WriteString(": ")
		if err := p.value(depth + 1); err != nil {
			return err
		}
		if p.dec.More() {
			p.buf.WriteByte(',')
		}
		p.buf.WriteByte('\n')
	}
	if _, err := p.dec.Token(); err != nil {
		return err
	}
	p.indent(depth)
	p.buf.WriteByte('}')
	return nil
}

func (p *literalPrinter) quote(s string) {
	p.buf.WriteByte('\'')
	p.buf.WriteString(stringEscapers.Replace(s))
	p.buf.WriteByte('\'')
}

func (p *literalPrinter) indent(depth int) {
	p.buf.WriteString(strings.Repeat(indentUnit, depth))
}

// Ensure the adapter implements the interface
var _ usecase.DeclarationRenderer = (*DeclarationRendererAdapter)(nil)
