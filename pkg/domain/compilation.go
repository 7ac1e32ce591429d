package domain

// Compilation is the successful outcome of compiling one pattern.
// Infix and Postfix are display renderings of the intermediate token streams.
type Compilation struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Infix   string `json:"infix" yaml:"infix"`
	Postfix string `json:"postfix" yaml:"postfix"`
	NFA     *NFA   `json:"nfa" yaml:"nfa"`
}
