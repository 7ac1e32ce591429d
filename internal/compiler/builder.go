package compiler

import (
	"github.com/aretw0/nfalab/pkg/domain"
)

// fragment is a partial automaton on the construction stack.
type fragment struct {
	start, end int
}

// builder owns the state arena and transition list during construction.
type builder struct {
	states      []domain.State
	transitions []domain.Transition
	stack       []fragment
}

func (b *builder) newState(accept bool) int {
	id := len(b.states)
	b.states = append(b.states, domain.State{ID: id, IsAccept: accept})
	return id
}

func (b *builder) link(from, to int, sym domain.Symbol) {
	b.transitions = append(b.transitions, domain.Transition{From: from, To: to, Symbol: sym})
}

// consume clears the accept flags of a fragment absorbed by an operator.
func (b *builder) consume(f fragment) {
	b.states[f.start].IsAccept = false
	b.states[f.end].IsAccept = false
}

func (b *builder) pop(n int, op Token) ([]fragment, error) {
	if len(b.stack) < n {
		return nil, domain.NewCompileError(domain.KindMalformedPostfix, op.Pos,
			"%s needs %d operand(s), found %d", op.Kind, n, len(b.stack))
	}
	frags := make([]fragment, n)
	copy(frags, b.stack[len(b.stack)-n:])
	b.stack = b.stack[:len(b.stack)-n]
	for _, f := range frags {
		b.consume(f)
	}
	return frags, nil
}

func (b *builder) push(f fragment) {
	b.stack = append(b.stack, f)
}

// Build runs Thompson's construction over a postfix token stream.
// An empty stream yields the single accepting state of the empty pattern.
// The final start state is always renumbered to id 0.
func Build(postfix []Token) (*domain.NFA, error) {
	b := &builder{}

	if len(postfix) == 0 {
		id := b.newState(true)
		return &domain.NFA{
			Start:       id,
			End:         id,
			States:      b.states,
			Transitions: []domain.Transition{},
		}, nil
	}

	for _, tok := range postfix {
		switch tok.Kind {
		case Operand, EpsilonOperand:
			start := b.newState(false)
			end := b.newState(true)
			b.link(start, end, tok.Symbol())
			b.push(fragment{start, end})

		case Concat:
			frags, err := b.pop(2, tok)
			if err != nil {
				return nil, err
			}
			f1, f2 := frags[0], frags[1]
			b.link(f1.end, f2.start, domain.Epsilon)
			b.push(fragment{f1.start, f2.end})

		case Alternation:
			frags, err := b.pop(2, tok)
			if err != nil {
				return nil, err
			}
			f1, f2 := frags[0], frags[1]
			start := b.newState(false)
			end := b.newState(true)
			b.link(start, f1.start, domain.Epsilon)
			b.link(start, f2.start, domain.Epsilon)
			b.link(f1.end, end, domain.Epsilon)
			b.link(f2.end, end, domain.Epsilon)
			b.push(fragment{start, end})

		case Star, Plus, Optional:
			frags, err := b.pop(1, tok)
			if err != nil {
				return nil, err
			}
			f := frags[0]
			start := b.newState(false)
			end := b.newState(true)
			b.link(start, f.start, domain.Epsilon)
			b.link(f.end, end, domain.Epsilon)
			if tok.Kind != Optional {
				b.link(f.end, f.start, domain.Epsilon)
			}
			if tok.Kind != Plus {
				b.link(start, end, domain.Epsilon)
			}
			b.push(fragment{start, end})

		default:
			return nil, domain.NewCompileError(domain.KindMalformedPostfix, tok.Pos,
				"unexpected %s in postfix", tok.Kind)
		}
	}

	if len(b.stack) != 1 {
		return nil, domain.NewCompileError(domain.KindMalformedPostfix, -1,
			"expected one fragment after construction, found %d", len(b.stack))
	}

	final := b.stack[0]
	b.states[final.start].IsAccept = false
	b.states[final.end].IsAccept = true

	nfa := &domain.NFA{
		Start:       final.start,
		End:         final.end,
		States:      b.states,
		Transitions: b.transitions,
	}
	renumberStart(nfa)
	return nfa, nil
}

// renumberStart swaps ids so that the start state is 0.
func renumberStart(n *domain.NFA) {
	s := n.Start
	if s == 0 {
		return
	}
	swap := func(id int) int {
		switch id {
		case 0:
			return s
		case s:
			return 0
		}
		return id
	}

	n.States[0], n.States[s] = n.States[s], n.States[0]
	n.States[0].ID = 0
	n.States[s].ID = s
	for i := range n.Transitions {
		n.Transitions[i].From = swap(n.Transitions[i].From)
		n.Transitions[i].To = swap(n.Transitions[i].To)
	}
	n.Start = 0
	n.End = swap(n.End)
}
