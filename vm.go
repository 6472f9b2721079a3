package linkml

import (
	"fmt"
	"math"
)

// Opcode identifies one expression-VM instruction, per spec.md §4.2. The
// instruction set has 28 opcodes: stack, arithmetic, comparison, logical,
// jump, call, construction, indexing and return.
type Opcode int

const (
	OpConst Opcode = iota
	OpLoad
	OpLoadField
	OpPop
	OpDup
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAnd
	OpOr
	OpNot
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpCall
	OpMakeArray
	OpMakeObject
	OpIndex
	OpReturn
)

// Instruction is one bytecode op with its operand, as produced by the
// (out-of-scope, per spec.md §1) expression compiler.
type Instruction struct {
	Op      Opcode
	Operand any // constant value, variable/field name, jump target, arg count
}

// Program is a linear list of expression-VM instructions.
type Program []Instruction

const (
	maxStackDepth     = 1024
	maxIterationCount = 10000
)

// Function is a callable entry in the VM's function registry, invoked by
// OpCall.
type Function func(args []any) (any, error)

// VM executes compiled expression bytecode against an immutable variable
// context, per spec.md §4.2.
type VM struct {
	Functions map[string]Function
}

// NewVM returns a VM with no registered functions; callers add their own
// via Functions before Run.
func NewVM() *VM {
	return &VM{Functions: map[string]Function{}}
}

// vmState holds one Run call's mutable execution state.
type vmState struct {
	stack        []any
	pc           int
	vars         map[string]any
	iterations   int
	program      Program
}

func (st *vmState) push(v any) error {
	if len(st.stack) >= maxStackDepth {
		return ErrStackOverflow
	}
	st.stack = append(st.stack, v)
	return nil
}

func (st *vmState) pop() (any, error) {
	if len(st.stack) == 0 {
		return nil, ErrStackUnderflow
	}
	v := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
	return v, nil
}

// Run executes program against vars (an immutable variable context) and
// returns the top-of-stack value after the final instruction, per spec.md
// §4.2's return contract ("empty stack is a TypeError").
func (vm *VM) Run(program Program, vars map[string]any) (any, error) {
	st := &vmState{vars: vars, program: program}

	for st.pc < len(program) {
		st.iterations++
		if st.iterations > maxIterationCount {
			return nil, ErrIterationLimitExceeded
		}

		instr := program[st.pc]
		advance := true

		switch instr.Op {
		case OpConst:
			if err := st.push(instr.Operand); err != nil {
				return nil, err
			}
		case OpLoad:
			name, _ := instr.Operand.(string)
			v, ok := st.vars[name]
			if !ok {
				v = nil
			}
			if err := st.push(v); err != nil {
				return nil, err
			}
		case OpLoadField:
			name, _ := instr.Operand.(string)
			base, err := st.pop()
			if err != nil {
				return nil, err
			}
			if err := st.push(getField(base, name)); err != nil {
				return nil, err
			}
		case OpPop:
			if _, err := st.pop(); err != nil {
				return nil, err
			}
		case OpDup:
			if len(st.stack) == 0 {
				return nil, ErrStackUnderflow
			}
			if err := st.push(st.stack[len(st.stack)-1]); err != nil {
				return nil, err
			}
		case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpPower:
			if err := vm.runArithmetic(st, instr.Op); err != nil {
				return nil, err
			}
		case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
			if err := runComparison(st, instr.Op); err != nil {
				return nil, err
			}
		case OpAnd, OpOr:
			if err := runLogical(st, instr.Op); err != nil {
				return nil, err
			}
		case OpNot:
			v, err := st.pop()
			if err != nil {
				return nil, err
			}
			if err := st.push(!truthy(v)); err != nil {
				return nil, err
			}
		case OpJump:
			st.pc = instr.Operand.(int)
			advance = false
		case OpJumpIfFalse:
			v, err := st.pop()
			if err != nil {
				return nil, err
			}
			if !truthy(v) {
				st.pc = instr.Operand.(int)
				advance = false
			}
		case OpJumpIfTrue:
			v, err := st.pop()
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				st.pc = instr.Operand.(int)
				advance = false
			}
		case OpCall:
			if err := vm.runCall(st, instr.Operand); err != nil {
				return nil, err
			}
		case OpMakeArray:
			n, _ := instr.Operand.(int)
			if n > len(st.stack) {
				return nil, ErrStackUnderflow
			}
			arr := make([]any, n)
			for i := n - 1; i >= 0; i-- {
				v, err := st.pop()
				if err != nil {
					return nil, err
				}
				arr[i] = v
			}
			if err := st.push(arr); err != nil {
				return nil, err
			}
		case OpMakeObject:
			n, _ := instr.Operand.(int)
			om := NewOrderedMap()
			pairs := make([][2]any, n)
			for i := n - 1; i >= 0; i-- {
				v, err := st.pop()
				if err != nil {
					return nil, err
				}
				k, err := st.pop()
				if err != nil {
					return nil, err
				}
				pairs[i] = [2]any{k, v}
			}
			for _, p := range pairs {
				key, _ := p[0].(string)
				om.Set(key, p[1])
			}
			if err := st.push(om); err != nil {
				return nil, err
			}
		case OpIndex:
			key, err := st.pop()
			if err != nil {
				return nil, err
			}
			base, err := st.pop()
			if err != nil {
				return nil, err
			}
			if err := st.push(indexValue(base, key)); err != nil {
				return nil, err
			}
		case OpReturn:
			advance = false
			st.pc = len(program)
		default:
			return nil, fmt.Errorf("%w: unknown opcode %d", ErrExpressionCompile, instr.Op)
		}

		if advance {
			st.pc++
		}
	}

	if len(st.stack) == 0 {
		return nil, ErrTypeError
	}
	return st.stack[len(st.stack)-1], nil
}

func (vm *VM) runCall(st *vmState, operand any) error {
	call, _ := operand.([2]any)
	name, _ := call[0].(string)
	argc, _ := call[1].(int)

	if argc > len(st.stack) {
		return ErrStackUnderflow
	}
	args := make([]any, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := st.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	fn, ok := vm.Functions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	result, err := fn(args)
	if err != nil {
		return err
	}
	return st.push(result)
}

func (vm *VM) runArithmetic(st *vmState, op Opcode) error {
	b, err := st.pop()
	if err != nil {
		return err
	}
	a, err := st.pop()
	if err != nil {
		return err
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return ErrTypeError
	}

	var result float64
	switch op {
	case OpAdd:
		result = af + bf
	case OpSubtract:
		result = af - bf
	case OpMultiply:
		result = af * bf
	case OpDivide:
		if bf == 0 {
			return ErrDivisionByZero
		}
		result = af / bf
	case OpModulo:
		if bf == 0 {
			return ErrDivisionByZero
		}
		result = math.Mod(af, bf)
	case OpPower:
		result = math.Pow(af, bf)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return ErrTypeError
	}
	return st.push(result)
}

func runComparison(st *vmState, op Opcode) error {
	b, err := st.pop()
	if err != nil {
		return err
	}
	a, err := st.pop()
	if err != nil {
		return err
	}

	var result bool
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	as, asok := a.(string)
	bs, bsok := b.(string)

	switch {
	case aok && bok:
		result = numericCompare(af, bf, op)
	case asok && bsok:
		result = stringCompare(as, bs, op)
	default:
		switch op {
		case OpEqual:
			result = false
		case OpNotEqual:
			result = true
		default:
			result = false
		}
	}
	return st.push(result)
}

func numericCompare(a, b float64, op Opcode) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	}
	return false
}

func stringCompare(a, b string, op Opcode) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	}
	return false
}

func runLogical(st *vmState, op Opcode) error {
	b, err := st.pop()
	if err != nil {
		return err
	}
	a, err := st.pop()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case OpAnd:
		result = truthy(a) && truthy(b)
	case OpOr:
		result = truthy(a) || truthy(b)
	}
	return st.push(result)
}

// truthy implements spec.md §4.2's broad truthiness rule: null, false, zero,
// empty string, empty array, and empty object are falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) != 0
	case *OrderedMap:
		return val.Len() != 0
	default:
		return true
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func getField(base any, name string) any {
	om, ok := base.(*OrderedMap)
	if !ok {
		return nil
	}
	v, _ := om.Get(name)
	return v
}

// indexValue indexes base by key: integers index arrays, strings index
// objects; a miss yields null rather than an error, per spec.md §4.2.
func indexValue(base, key any) any {
	switch k := key.(type) {
	case float64:
		arr, ok := base.([]any)
		if !ok {
			return nil
		}
		i := int(k)
		if i < 0 || i >= len(arr) {
			return nil
		}
		return arr[i]
	case int:
		arr, ok := base.([]any)
		if !ok {
			return nil
		}
		if k < 0 || k >= len(arr) {
			return nil
		}
		return arr[k]
	case string:
		return getField(base, k)
	default:
		return nil
	}
}
