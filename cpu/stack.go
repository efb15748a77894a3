package cpu

const (
	STACK_LIMIT = 16 // Slots in the call stack.
)

// Stack is the fixed-depth call stack of return addresses.
//
// Sp indexes the most recently pushed slot. Slot 0 is the empty
// position, so at most STACK_LIMIT-1 addresses can be held.
type Stack struct {
	Sp   uint8
	Data [STACK_LIMIT]uint16
}

// Push stores a return address. Returns false if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Sp++
	s.Data[s.Sp] = value
	return true
}

// Pop removes the most recent return address.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return int(s.Sp) >= STACK_LIMIT-1
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp], true
}

func (s *Stack) Reset() {
	s.Sp = 0
	clear(s.Data[:])
}
