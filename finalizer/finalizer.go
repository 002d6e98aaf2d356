// Package finalizer converts a signed PSBT's inputs into their final
// scriptSig/witness form using the same spending Plans the selector and
// PSBT assembler used to build the transaction.
package finalizer

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/selection"
	"github.com/satoshikit/txcore/txerr"
)

// Finalizer holds the spending plan for every outpoint it knows how to
// finalize.
type Finalizer struct {
	plans map[wire.OutPoint]coininput.Plan
}

// New builds a Finalizer from (outpoint, plan) pairs, typically derived
// from the Selection that produced the PSBT being finalized.
func New(plans map[wire.OutPoint]coininput.Plan) *Finalizer {
	cp := make(map[wire.OutPoint]coininput.Plan, len(plans))
	for k, v := range plans {
		cp[k] = v
	}
	return &Finalizer{plans: cp}
}

// FromSelection builds a Finalizer directly from a Selection, picking up
// the plan of every non-foreign input (foreign finalized inputs carry no
// plan and need no finalization).
func FromSelection(sel selection.Selection) *Finalizer {
	plans := make(map[wire.OutPoint]coininput.Plan)
	for _, in := range sel.Inputs {
		if plan, ok := in.Plan(); ok {
			plans[in.PrevOutpoint()] = plan
		}
	}
	return New(plans)
}

// satisfier adapts one PSBT input into the narrow view a Plan's Satisfy
// method consumes.
type satisfier struct {
	pin  *psbt.PInput
	txin *wire.TxIn
}

func (s satisfier) PInput() *psbt.PInput     { return s.pin }
func (s satisfier) UnsignedTxIn() *wire.TxIn { return s.txin }

// FinalizeInput finalizes a single PSBT input, returning true if it is now
// (or was already) final. If the input's outpoint carries no known plan,
// it is left untouched and ok=false is returned with a nil error.
func (f *Finalizer) FinalizeInput(packet *psbt.Packet, inputIndex int) (bool, error) {
	pin := &packet.Inputs[inputIndex]
	if len(pin.FinalScriptSig) > 0 || len(pin.FinalScriptWitness) > 0 {
		return true, nil
	}

	outpoint := packet.UnsignedTx.TxIn[inputIndex].PreviousOutPoint
	plan, ok := f.plans[outpoint]
	if !ok {
		return false, nil
	}

	stack, scriptSig, err := plan.Satisfy(satisfier{pin: pin, txin: packet.UnsignedTx.TxIn[inputIndex]})
	if err != nil {
		return false, txerr.Wrap(txerr.FinalizeInput, err)
	}

	nonWitnessUtxo := pin.NonWitnessUtxo
	witnessUtxo := pin.WitnessUtxo
	*pin = psbt.PInput{
		NonWitnessUtxo: nonWitnessUtxo,
		WitnessUtxo:    witnessUtxo,
	}
	if len(scriptSig) > 0 {
		pin.FinalScriptSig = scriptSig
	}
	if len(stack) > 0 {
		// Serialize the witness stack into its BIP-174 wire representation;
		// FinalScriptWitness is the serialized form, not the raw stack.
		var witnessBytes bytes.Buffer
		if err := psbt.WriteTxWitness(&witnessBytes, stack); err != nil {
			return false, fmt.Errorf("serializing witness: %w", err)
		}
		pin.FinalScriptWitness = witnessBytes.Bytes()
	}

	return true, nil
}

// Result is the outcome of finalizing one PSBT input.
type Result struct {
	IsFinal bool
	Err     error
}

// FinalizeMap maps input index to its finalization Result.
type FinalizeMap map[int]Result

// IsFinalized reports whether every input finalized successfully.
func (m FinalizeMap) IsFinalized() bool {
	for _, r := range m {
		if r.Err != nil || !r.IsFinal {
			return false
		}
	}
	return true
}

// Finalize attempts to finalize every input in packet, returning a result
// per index. Once every input is final, the PSBT outputs' bip32/taproot
// key-origin metadata (no longer needed once the transaction can be
// extracted) is cleared.
func (f *Finalizer) Finalize(packet *psbt.Packet) FinalizeMap {
	result := make(FinalizeMap, len(packet.Inputs))
	allFinal := true

	for i := range packet.Inputs {
		pin := &packet.Inputs[i]
		if len(pin.FinalScriptSig) > 0 || len(pin.FinalScriptWitness) > 0 {
			result[i] = Result{IsFinal: true}
			continue
		}
		isFinal, err := f.FinalizeInput(packet, i)
		result[i] = Result{IsFinal: isFinal, Err: err}
		if err != nil || !isFinal {
			allFinal = false
		}
	}

	if allFinal {
		for i := range packet.Outputs {
			out := &packet.Outputs[i]
			out.Bip32Derivation = nil
			out.TaprootBip32Derivation = nil
			out.TaprootInternalKey = nil
		}
	}

	return result
}
