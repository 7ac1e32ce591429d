// Package codegen exports a compiled automaton as standalone Go source.
package codegen

import (
	"fmt"
	"go/token"
	"io"
	"strconv"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/simulation"
)

const (
	DefaultPackage = "matcher"
	DefaultFunc    = "Match"
)

// Options controls the generated file.
type Options struct {
	Package string
	Func    string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.Func == "" {
		o.Func = DefaultFunc
	}
	return o
}

// Generator emits a table-driven matcher: the epsilon closure of every
// state is precomputed so the generated code only follows character moves.
type Generator struct {
	opts        Options
	compilation *domain.Compilation

	closureName string
	movesName   string
	acceptName  string
	startName   string
}

// New validates the options against Go identifier rules.
func New(c *domain.Compilation, opts Options) (*Generator, error) {
	opts = opts.withDefaults()
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	if !token.IsIdentifier(opts.Func) {
		return nil, fmt.Errorf("invalid function name %q", opts.Func)
	}
	if c == nil || c.NFA == nil {
		return nil, fmt.Errorf("nothing to generate: compilation is empty")
	}

	prefix := lowerFirst(opts.Func)
	return &Generator{
		opts:        opts,
		compilation: c,
		closureName: prefix + "Closure",
		movesName:   prefix + "Moves",
		acceptName:  prefix + "Accept",
		startName:   prefix + "Start",
	}, nil
}

// File builds the jennifer file.
func (g *Generator) File() *jen.File {
	n := g.compilation.NFA
	size := len(n.States)

	f := jen.NewFile(g.opts.Package)
	f.HeaderComment("Code generated by nfalab. DO NOT EDIT.")
	f.Commentf("Pattern: %s", strconv.Quote(g.compilation.Pattern))
	f.Commentf("Postfix: %s", strconv.Quote(g.compilation.Postfix))
	f.Line()

	f.Const().Id(g.startName).Op("=").Lit(n.Start)
	f.Line()

	f.Commentf("%s holds the epsilon closure of each state.", g.closureName)
	f.Var().Id(g.closureName).Op("=").Index().Index().Int().ValuesFunc(func(grp *jen.Group) {
		for _, s := range n.States {
			closure := simulation.EpsilonClosure(domain.NewActiveSet(s.ID), n.Transitions)
			ids := make([]jen.Code, len(closure))
			for i, id := range closure {
				ids[i] = jen.Lit(id)
			}
			grp.Line().Values(ids...)
		}
		grp.Line()
	})
	f.Line()

	f.Commentf("%s lists the character transitions.", g.movesName)
	f.Var().Id(g.movesName).Op("=").Index().Struct(
		jen.Id("from").Int(),
		jen.Id("symbol").Rune(),
		jen.Id("to").Int(),
	).ValuesFunc(func(grp *jen.Group) {
		for _, t := range n.Transitions {
			if t.IsEpsilon() {
				continue
			}
			grp.Line().Values(jen.Lit(t.From), jen.LitRune(t.Symbol.Rune()), jen.Lit(t.To))
		}
		grp.Line()
	})
	f.Line()

	f.Var().Id(g.acceptName).Op("=").Index().Bool().ValuesFunc(func(grp *jen.Group) {
		for _, s := range n.States {
			grp.Lit(s.IsAccept)
		}
	})
	f.Line()

	f.Commentf("%s reports whether input belongs to the language of %s.", g.opts.Func, strconv.Quote(g.compilation.Pattern))
	f.Func().Id(g.opts.Func).Params(jen.Id("input").String()).Bool().Block(
		jen.Id("current").Op(":=").Make(jen.Index().Bool(), jen.Lit(size)),
		jen.For(jen.List(jen.Id("_"), jen.Id("s")).Op(":=").Range().Id(g.closureName).Index(jen.Id(g.startName))).Block(
			jen.Id("current").Index(jen.Id("s")).Op("=").True(),
		),
		jen.For(jen.List(jen.Id("_"), jen.Id("r")).Op(":=").Range().Id("input")).Block(
			jen.Id("next").Op(":=").Make(jen.Index().Bool(), jen.Lit(size)),
			jen.Id("alive").Op(":=").False(),
			jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id(g.movesName)).Block(
				jen.If(jen.Op("!").Id("current").Index(jen.Id("m").Dot("from")).Op("||").Id("m").Dot("symbol").Op("!=").Id("r")).Block(
					jen.Continue(),
				),
				jen.For(jen.List(jen.Id("_"), jen.Id("s")).Op(":=").Range().Id(g.closureName).Index(jen.Id("m").Dot("to"))).Block(
					jen.Id("next").Index(jen.Id("s")).Op("=").True(),
				),
				jen.Id("alive").Op("=").True(),
			),
			jen.If(jen.Op("!").Id("alive")).Block(jen.Return(jen.False())),
			jen.Id("current").Op("=").Id("next"),
		),
		jen.For(jen.List(jen.Id("s"), jen.Id("on")).Op(":=").Range().Id("current")).Block(
			jen.If(jen.Id("on").Op("&&").Id(g.acceptName).Index(jen.Id("s"))).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)

	return f
}

// Write renders the generated file to w.
func (g *Generator) Write(w io.Writer) error {
	if err := g.File().Render(w); err != nil {
		return fmt.Errorf("failed to render Go source: %w", err)
	}
	return nil
}

// WriteGo is a shortcut for New followed by Write.
func WriteGo(w io.Writer, c *domain.Compilation, opts Options) error {
	g, err := New(c, opts)
	if err != nil {
		return err
	}
	return g.Write(w)
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
