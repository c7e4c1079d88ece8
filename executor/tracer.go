package executor

import (
	"errors"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
)

var (
	_ vm.EVMLogger = (*callTracer)(nil)
	_ vm.EVMLogger = (*CallErrorTracer)(nil)
	_ vm.EVMLogger = (tracers)(nil)
)

type callFrame struct {
	typ     string
	from    common.Address
	to      common.Address
	input   []byte
	gas     uint64
	gasUsed uint64
	value   *big.Int
	output  []byte
	err     error
	calls   []*callFrame
}

func (f *callFrame) debugCall() types.DebugCall {
	call := types.DebugCall{
		Type:    f.typ,
		From:    f.from,
		To:      f.to,
		Gas:     (*hexutil.Big)(new(big.Int).SetUint64(f.gas)),
		GasUsed: (*hexutil.Big)(new(big.Int).SetUint64(f.gasUsed)),
		Value:   (*hexutil.Big)(new(big.Int)),
		Output:  f.output,
		Input:   f.input,
		Calls:   []types.DebugCall{},
	}
	if f.value != nil {
		call.Value = (*hexutil.Big)(new(big.Int).Set(f.value))
	}
	if f.err != nil {
		msg := f.err.Error()
		call.Error = &msg
		if errors.Is(f.err, vm.ErrExecutionReverted) && len(f.output) > 0 {
			if reason, err := abi.UnpackRevert(f.output); err == nil {
				call.RevertReason = &reason
			}
		}
	}
	for _, sub := range f.calls {
		call.Calls = append(call.Calls, sub.debugCall())
	}
	return call
}

// callTracer builds the call tree of a transaction.
type callTracer struct {
	gasLimit uint64
	stack    []*callFrame
	root     *callFrame
}

func newCallTracer() *callTracer {
	return &callTracer{}
}

func (t *callTracer) CaptureTxStart(gasLimit uint64) {
	t.gasLimit = gasLimit
}

func (t *callTracer) CaptureTxEnd(restGas uint64) {
	if t.root != nil {
		t.root.gasUsed = t.gasLimit - restGas
	}
}

func (t *callTracer) CaptureStart(env *vm.EVM, from common.Address, to common.Address, create bool, input []byte, gas uint64, value *big.Int) {
	typ := vm.CALL
	if create {
		typ = vm.CREATE
	}
	t.root = &callFrame{
		typ:   typ.String(),
		from:  from,
		to:    to,
		input: common.CopyBytes(input),
		gas:   t.gasLimit,
		value: value,
	}
	t.stack = []*callFrame{t.root}
}

func (t *callTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {
	if t.root == nil {
		return
	}
	t.root.output = common.CopyBytes(output)
	t.root.gasUsed = gasUsed
	t.root.err = err
}

func (t *callTracer) CaptureEnter(typ vm.OpCode, from common.Address, to common.Address, input []byte, gas uint64, value *big.Int) {
	frame := &callFrame{
		typ:   typ.String(),
		from:  from,
		to:    to,
		input: common.CopyBytes(input),
		gas:   gas,
	}
	if value != nil {
		frame.value = new(big.Int).Set(value)
	}
	t.stack = append(t.stack, frame)
}

func (t *callTracer) CaptureExit(output []byte, gasUsed uint64, err error) {
	size := len(t.stack)
	if size <= 1 {
		return
	}
	frame := t.stack[size-1]
	t.stack = t.stack[:size-1]
	frame.output = common.CopyBytes(output)
	frame.gasUsed = gasUsed
	frame.err = err

	parent := t.stack[size-2]
	parent.calls = append(parent.calls, frame)
}

func (t *callTracer) CaptureState(uint64, vm.OpCode, uint64, uint64, *vm.ScopeContext, []byte, int, error) {
}

func (t *callTracer) CaptureFault(uint64, vm.OpCode, uint64, uint64, *vm.ScopeContext, int, error) {
}

// result returns the call tree, nil if nothing was executed
func (t *callTracer) result() *types.DebugCall {
	if t.root == nil {
		return nil
	}
	call := t.root.debugCall()
	return &call
}

// Fault is an abnormal termination observed while running a frame.
type Fault string

// Faults recorded by the CallErrorTracer
const (
	FaultInvalidOpcode        Fault = "invalid opcode"
	FaultOutOfGas             Fault = "out of gas"
	FaultWriteInStaticContext Fault = "write in static context"
	FaultCallStackFull        Fault = "call stack full"
	FaultPrivilegedAccess     Fault = "privileged access outside kernel"
)

// kernelSpaceStart is the first address of the system contracts
var kernelSpaceStart = big.NewInt(0x8000)

// CallErrorTracer records the faults raised by the VM. It only observes, the
// outcome of the transaction is not affected.
type CallErrorTracer struct {
	faults []Fault
	seen   map[Fault]bool
}

// NewCallErrorTracer creates an empty CallErrorTracer
func NewCallErrorTracer() *CallErrorTracer {
	return &CallErrorTracer{seen: make(map[Fault]bool)}
}

// Faults returns the recorded faults in the order they were first seen
func (t *CallErrorTracer) Faults() []Fault {
	return t.faults
}

func (t *CallErrorTracer) record(f Fault) {
	if t.seen[f] {
		return
	}
	t.seen[f] = true
	t.faults = append(t.faults, f)
}

func (t *CallErrorTracer) recordErr(err error) {
	if err == nil {
		return
	}
	var invalidOpcode *vm.ErrInvalidOpCode
	switch {
	case errors.As(err, &invalidOpcode), errors.Is(err, vm.ErrInvalidJump):
		t.record(FaultInvalidOpcode)
	case errors.Is(err, vm.ErrOutOfGas), errors.Is(err, vm.ErrCodeStoreOutOfGas):
		t.record(FaultOutOfGas)
	case errors.Is(err, vm.ErrWriteProtection):
		t.record(FaultWriteInStaticContext)
	case errors.Is(err, vm.ErrDepth):
		t.record(FaultCallStackFull)
	}
}

func (t *CallErrorTracer) checkTarget(from, to common.Address) {
	if !types.IsSystemContract(from) && to.Big().Cmp(kernelSpaceStart) >= 0 && types.IsSystemContract(to) {
		t.record(FaultPrivilegedAccess)
	}
}

func (t *CallErrorTracer) CaptureTxStart(uint64) {}

func (t *CallErrorTracer) CaptureTxEnd(uint64) {}

func (t *CallErrorTracer) CaptureStart(env *vm.EVM, from common.Address, to common.Address, create bool, input []byte, gas uint64, value *big.Int) {
}

func (t *CallErrorTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {
	t.recordErr(err)
}

func (t *CallErrorTracer) CaptureEnter(typ vm.OpCode, from common.Address, to common.Address, input []byte, gas uint64, value *big.Int) {
	t.checkTarget(from, to)
}

func (t *CallErrorTracer) CaptureExit(output []byte, gasUsed uint64, err error) {
	t.recordErr(err)
}

func (t *CallErrorTracer) CaptureState(pc uint64, op vm.OpCode, gas, cost uint64, scope *vm.ScopeContext, rData []byte, depth int, err error) {
	t.recordErr(err)
}

func (t *CallErrorTracer) CaptureFault(pc uint64, op vm.OpCode, gas, cost uint64, scope *vm.ScopeContext, depth int, err error) {
	t.recordErr(err)
}

// tracers fans the VM events out to several tracers
type tracers []vm.EVMLogger

func (ts tracers) CaptureTxStart(gasLimit uint64) {
	for _, t := range ts {
		t.CaptureTxStart(gasLimit)
	}
}

func (ts tracers) CaptureTxEnd(restGas uint64) {
	for _, t := range ts {
		t.CaptureTxEnd(restGas)
	}
}

func (ts tracers) CaptureStart(env *vm.EVM, from common.Address, to common.Address, create bool, input []byte, gas uint64, value *big.Int) {
	for _, t := range ts {
		t.CaptureStart(env, from, to, create, input, gas, value)
	}
}

func (ts tracers) CaptureEnd(output []byte, gasUsed uint64, err error) {
	for _, t := range ts {
		t.CaptureEnd(output, gasUsed, err)
	}
}

func (ts tracers) CaptureEnter(typ vm.OpCode, from common.Address, to common.Address, input []byte, gas uint64, value *big.Int) {
	for _, t := range ts {
		t.CaptureEnter(typ, from, to, input, gas, value)
	}
}

func (ts tracers) CaptureExit(output []byte, gasUsed uint64, err error) {
	for _, t := range ts {
		t.CaptureExit(output, gasUsed, err)
	}
}

func (ts tracers) CaptureState(pc uint64, op vm.OpCode, gas, cost uint64, scope *vm.ScopeContext, rData []byte, depth int, err error) {
	for _, t := range ts {
		t.CaptureState(pc, op, gas, cost, scope, rData, depth, err)
	}
}

func (ts tracers) CaptureFault(pc uint64, op vm.OpCode, gas, cost uint64, scope *vm.ScopeContext, depth int, err error) {
	for _, t := range ts {
		t.CaptureFault(pc, op, gas, cost, scope, depth, err)
	}
}
