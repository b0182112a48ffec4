// Package tableau implements the MILP tableau compiler of spec.md §4.4-§4.6:
// a code generator that walks the entity graph once per chunk and emits a
// linear program of opcodes (Instr), and a VM that executes that program
// once per time step of the chunk, accumulating a sparse matrix, RHS
// vector, bounds, integrality/SOS2 groups, and an objective row.
package tableau

import "github.com/linnyr/engine/model"

// Op tags one of the tableau-manipulating opcodes of spec.md §4.4. Per
// Design Note §9 ("dynamic dispatch across 80+ opcodes"), Instr is a sum
// type evaluated by a single big switch in vm.go; there is no per-opcode
// function-pointer table.
type Op uint8

const (
	OpClearCoefficients Op = iota
	OpSetBounds
	OpAddConst
	OpSubConst
	OpAddVar
	OpSubVar
	OpAddSumCoefficients
	OpAddWeightedSumCoefficients
	OpUpdateCashCoefficient
	OpAddCashConstraints
	OpAddNZPBinaryConstraints
	OpAddStartupConstraints
	OpAddShutdownConstraints
	OpAddFirstCommitConstraints
	OpAddSemicontinuousConstraints
	OpAddGridProcessConstraints
	OpAddKirchhoffConstraints
	OpAddPowerFlowToCoefficients
	OpAddPeakIncreaseConstraints
	OpAddBoundLineConstraint
	OpAddConstraint
)

// Instr is one emitted opcode plus its payload. Not every field is
// meaningful for every Op; the cases of Exec in ops.go show which fields
// each Op reads. This mirrors expr.Instr's flat-payload-struct shape rather than
// an interface per opcode, per Design Note §9.
type Instr struct {
	Op Op

	Ref  model.Ref // the owning process/product/actor/constraint
	Key  string    // variable role key, e.g. "L", "POS", "Slope0Up" (layout.go); the row label for OpAddConstraint
	Key2 string    // second role key, where an opcode relates two variables

	Coeff  float64
	Delay  int
	Weight float64

	PlusOne bool // divide by delay+1 (MEAN link semantics, spec.md §4.4)
	Sign    float64 // not read by Exec, which takes the sign from Op

	RowType RowType

	Link       *model.Link
	Constraint *model.Constraint
	Grid       *model.PowerGrid
	Dir        int // +1 (P->Q) / -1 (Q->P), AddPowerFlowToCoefficients
}
