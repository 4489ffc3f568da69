package symbols

// scopes tracks the scope label given to new declarations.
//
// In flat mode (the default) there is a single label: a function or class
// header overwrites it and every '}' resets it to global, so a nested block
// closing inside a function loses the function's label early.
//
// In stack mode each '{' pushes the label to restore at its matching '}'.
type scopes struct {
	stack   bool
	current string

	frames  []string
	outer   string
	pending bool
}

func newScopes(stack bool) *scopes {
	return &scopes{stack: stack, current: GlobalScope}
}

// open switches to a function or class scope. Parameters that follow the
// header are recorded in it.
func (s *scopes) open(name string) {
	if s.stack && !s.pending {
		s.outer = s.current
		s.pending = true
	}
	s.current = name
}

func (s *scopes) enter() {
	if !s.stack {
		return
	}
	if s.pending {
		s.frames = append(s.frames, s.outer)
		s.pending = false
		return
	}
	s.frames = append(s.frames, s.current)
}

func (s *scopes) exit() {
	if !s.stack || len(s.frames) == 0 {
		s.current = GlobalScope
		return
	}
	s.current = s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
}

// endStatement drops a header that never opened a body, e.g. a prototype.
func (s *scopes) endStatement() {
	if s.stack && s.pending {
		s.current = s.outer
		s.pending = false
	}
}
