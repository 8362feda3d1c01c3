// Package vm implements the stack-based virtual machine that executes a
// compiled chunk.Chunk: a value stack, a globals table, a call-frame
// return-address stack, a stack-pointer base for the active frame's local
// window, and a single temporary register used to marshal callees and
// return values across a call.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dolthub/swiss"

	"github.com/wisplang/wisp/lang/chunk"
	"github.com/wisplang/wisp/lang/value"
)

// VM executes a single chunk.Chunk to completion or fatal error. It is not
// safe to reuse across chunks nor to share across goroutines.
type VM struct {
	// Stdout receives Print opcode output. If nil, os.Stdout is used.
	Stdout io.Writer

	// MaxSteps bounds the number of executed instructions before the run is
	// cancelled. A value <= 0 means no limit.
	MaxSteps int

	ctx       context.Context
	ctxCancel func()
	cancelled atomic.Bool

	steps, maxSteps uint64
	stdout          io.Writer

	chunk   *chunk.Chunk
	ip      int
	stack   []value.Value
	sp      int
	temp    value.Value
	ipStack []int
	globals *swiss.Map[string, value.Value]
}

// Run executes c to completion, returning a fatal error if one occurs.
func (vm *VM) Run(ctx context.Context, c *chunk.Chunk) error {
	vm.init(ctx)
	vm.chunk = c
	vm.globals = swiss.NewMap[string, value.Value](16)
	vm.temp = value.Nil
	return vm.run()
}

func (vm *VM) init(ctx context.Context) {
	if vm.MaxSteps <= 0 {
		vm.maxSteps--
	} else {
		vm.maxSteps = uint64(vm.MaxSteps)
	}
	if vm.Stdout != nil {
		vm.stdout = vm.Stdout
	} else {
		vm.stdout = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	vm.ctx = ctx
	vm.ctxCancel = cancel
	go func() {
		<-vm.ctx.Done()
		vm.cancelled.Store(true)
	}()
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) top() value.Value { return vm.stack[len(vm.stack)-1] }

func (vm *VM) fetch() (uint16, error) {
	w, err := vm.chunk.ReadAt(vm.ip)
	if err != nil {
		return 0, err
	}
	vm.ip++
	return w, nil
}

func (vm *VM) fetchOpcode() (chunk.Opcode, error) {
	w, err := vm.fetch()
	if err != nil {
		return 0, err
	}
	return chunk.OpcodeFromWord(w)
}

// slotOperand decodes a GetLocal/SetLocal operand word, recovering a
// possibly-negative slot from its two's-complement bit pattern.
func slotOperand(w uint16) int { return int(int16(w)) }

func (vm *VM) run() error {
loop:
	for {
		vm.steps++
		if vm.steps >= vm.maxSteps {
			vm.ctxCancel()
			return fmt.Errorf("execution cancelled: step budget exceeded")
		}
		if vm.cancelled.Load() {
			return fmt.Errorf("execution cancelled: %s", context.Cause(vm.ctx))
		}

		op, err := vm.fetchOpcode()
		if err != nil {
			return err
		}

		switch op {
		case chunk.Eof:
			break loop

		case chunk.Panic:
			return fmt.Errorf("ip %d: reached an unpatched jump placeholder", vm.ip-1)

		case chunk.Constant:
			id, err := vm.fetch()
			if err != nil {
				return err
			}
			cv, ok := vm.chunk.GetConstant(id)
			if !ok {
				return fmt.Errorf("ip %d: constant %d out of range", vm.ip-2, id)
			}
			vm.push(cv)

		case chunk.Negate:
			n, ok := vm.top().(value.Number)
			if !ok {
				return fmt.Errorf("ip %d: cannot negate a %s", vm.ip-1, vm.top().Type())
			}
			vm.stack[len(vm.stack)-1] = -n

		case chunk.Add, chunk.Subtract, chunk.Multiply, chunk.Divide:
			b := vm.pop()
			a := vm.pop()
			v, err := arith(op, a, b)
			if err != nil {
				return fmt.Errorf("ip %d: %w", vm.ip-1, err)
			}
			vm.push(v)

		case chunk.NilOp:
			vm.push(value.Nil)
		case chunk.True:
			vm.push(value.Bool(true))
		case chunk.False:
			vm.push(value.Bool(false))

		case chunk.Not:
			v, err := not(vm.pop())
			if err != nil {
				return fmt.Errorf("ip %d: %w", vm.ip-1, err)
			}
			vm.push(v)

		case chunk.Equal:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.Greater, chunk.Less:
			b := vm.pop()
			a := vm.pop()
			cmp, err := value.Compare(a, b)
			if err != nil {
				return fmt.Errorf("ip %d: %w", vm.ip-1, err)
			}
			if op == chunk.Greater {
				vm.push(value.Bool(cmp > 0))
			} else {
				vm.push(value.Bool(cmp < 0))
			}

		case chunk.Print:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case chunk.Pop:
			vm.pop()

		case chunk.SetSP:
			vm.sp = len(vm.stack)

		case chunk.DefineGlobal:
			id, err := vm.fetch()
			if err != nil {
				return err
			}
			name, err := vm.constantString(id)
			if err != nil {
				return err
			}
			vm.globals.Put(name, vm.pop())

		case chunk.GetGlobal:
			id, err := vm.fetch()
			if err != nil {
				return err
			}
			name, err := vm.constantString(id)
			if err != nil {
				return err
			}
			v, ok := vm.globals.Get(name)
			if !ok {
				return fmt.Errorf("ip %d: undefined global %q", vm.ip-2, name)
			}
			vm.push(v)

		case chunk.SetGlobal:
			id, err := vm.fetch()
			if err != nil {
				return err
			}
			name, err := vm.constantString(id)
			if err != nil {
				return err
			}
			if _, ok := vm.globals.Get(name); !ok {
				return fmt.Errorf("ip %d: assignment to undefined global %q", vm.ip-2, name)
			}
			vm.globals.Put(name, vm.top())

		case chunk.GetLocal:
			w, err := vm.fetch()
			if err != nil {
				return err
			}
			idx := vm.sp - slotOperand(w)
			if idx < 0 || idx >= len(vm.stack) {
				return fmt.Errorf("ip %d: local slot resolves out of stack bounds", vm.ip-2)
			}
			vm.push(vm.stack[idx])

		case chunk.SetLocal:
			w, err := vm.fetch()
			if err != nil {
				return err
			}
			idx := vm.sp - slotOperand(w)
			if idx < 0 || idx >= len(vm.stack) {
				return fmt.Errorf("ip %d: local slot resolves out of stack bounds", vm.ip-2)
			}
			vm.stack[idx] = vm.top()

		case chunk.Jmp:
			n, err := vm.fetch()
			if err != nil {
				return err
			}
			vm.ip += int(n)

		case chunk.JmpFalse:
			n, err := vm.fetch()
			if err != nil {
				return err
			}
			b, ok := vm.top().(value.Bool)
			if !ok {
				return fmt.Errorf("ip %d: conditional jump requires a bool, got %s", vm.ip-2, vm.top().Type())
			}
			if !bool(b) {
				vm.ip += int(n)
			}

		case chunk.JmpTrue:
			n, err := vm.fetch()
			if err != nil {
				return err
			}
			b, ok := vm.top().(value.Bool)
			if !ok {
				return fmt.Errorf("ip %d: conditional jump requires a bool, got %s", vm.ip-2, vm.top().Type())
			}
			if bool(b) {
				vm.ip += int(n)
			}

		case chunk.Loop:
			n, err := vm.fetch()
			if err != nil {
				return err
			}
			vm.ip -= int(n)

		case chunk.PopStoreTmp:
			vm.temp = vm.pop()

		case chunk.Call:
			argc, err := vm.fetch()
			if err != nil {
				return err
			}
			fn, ok := vm.temp.(*value.Function)
			if !ok {
				return fmt.Errorf("ip %d: cannot call a %s", vm.ip-2, vm.temp.Type())
			}
			if fn.Arity != int(argc) {
				return fmt.Errorf("ip %d: %s expects %d argument(s), got %d", vm.ip-2, fn.Name, fn.Arity, argc)
			}
			vm.ipStack = append(vm.ipStack, vm.ip)
			vm.ip = fn.Address

		case chunk.Return:
			if len(vm.ipStack) == 0 {
				return fmt.Errorf("ip %d: return with empty call stack", vm.ip-1)
			}
			n := len(vm.ipStack) - 1
			vm.ip = vm.ipStack[n]
			vm.ipStack = vm.ipStack[:n]
			vm.push(vm.temp)
			vm.temp = value.Nil
			vm.sp = len(vm.stack) - 1

		default:
			return fmt.Errorf("ip %d: unimplemented opcode %s", vm.ip-1, op)
		}
	}
	return nil
}

func (vm *VM) constantString(id uint16) (string, error) {
	cv, ok := vm.chunk.GetConstant(id)
	if !ok {
		return "", fmt.Errorf("constant %d out of range", id)
	}
	s, ok := cv.(value.String)
	if !ok {
		return "", fmt.Errorf("constant %d is a %s, expected a string", id, cv.Type())
	}
	return string(s), nil
}

func arith(op chunk.Opcode, a, b value.Value) (value.Value, error) {
	an, aIsNum := a.(value.Number)
	bn, bIsNum := b.(value.Number)
	if aIsNum && bIsNum {
		switch op {
		case chunk.Add:
			return an + bn, nil
		case chunk.Subtract:
			return an - bn, nil
		case chunk.Multiply:
			return an * bn, nil
		case chunk.Divide:
			return an / bn, nil
		}
	}

	if op == chunk.Add {
		as, aIsStr := a.(value.String)
		bs, bIsStr := b.(value.String)
		if aIsStr && bIsStr {
			return as + bs, nil
		}
	}

	return nil, fmt.Errorf("cannot apply %s to %s and %s", op, a.Type(), b.Type())
}

func not(v value.Value) (value.Value, error) {
	switch v := v.(type) {
	case value.Bool:
		return value.Bool(!v), nil
	case value.NilType:
		return value.Bool(true), nil
	default:
		return nil, fmt.Errorf("cannot negate a %s with not", v.Type())
	}
}
