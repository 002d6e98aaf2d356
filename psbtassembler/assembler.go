package psbtassembler

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/selection"
)

// Build assembles sel into an unsigned PSBT per params, populating every
// input and output field derivable ahead of signing.
func Build(sel selection.Selection, params Params) (*psbt.Packet, error) {
	locktime, err := resolveLocktime(sel, params)
	if err != nil {
		return nil, err
	}

	if params.AntiFeeSniping != nil {
		locktime, sequenceOverride := applyAntiFeeSniping(sel, params)
		return buildWithSequenceOverride(sel, params, locktime, sequenceOverride)
	}

	return buildWithSequenceOverride(sel, params, locktime, nil)
}

func resolveLocktime(sel selection.Selection, params Params) (coininput.LockTime, error) {
	locktimes := make([]coininput.LockTime, 0, len(sel.Inputs))
	for _, in := range sel.Inputs {
		if lt, ok := in.AbsoluteTimelock(); ok {
			locktimes = append(locktimes, lt)
		}
	}
	if len(locktimes) == 0 {
		return params.FallbackLocktime, nil
	}

	locktime, ok := accumulateMaxLocktime(locktimes)
	if !ok {
		return coininput.LockTime{}, lockTypeMismatch()
	}
	return locktime, nil
}

func sequenceFor(in coininput.Input, params Params, override map[wire.OutPoint]uint32) uint32 {
	if override != nil {
		if seq, ok := override[in.PrevOutpoint()]; ok {
			return seq
		}
	}
	if seq, ok := in.Sequence(); ok {
		return seq
	}
	return params.FallbackSequence
}

func buildWithSequenceOverride(sel selection.Selection, params Params, locktime coininput.LockTime,
	sequenceOverride map[wire.OutPoint]uint32) (*psbt.Packet, error) {

	unsignedTx := &wire.MsgTx{
		Version:  params.Version,
		LockTime: locktime.Value(),
	}

	for _, in := range sel.Inputs {
		unsignedTx.TxIn = append(unsignedTx.TxIn, &wire.TxIn{
			PreviousOutPoint: in.PrevOutpoint(),
			Sequence:         sequenceFor(in, params, sequenceOverride),
		})
	}
	for _, out := range sel.Outputs {
		unsignedTx.TxOut = append(unsignedTx.TxOut, out.TxOut())
	}

	packet, err := psbt.NewFromUnsignedTx(unsignedTx)
	if err != nil {
		return nil, err
	}

	for i, in := range sel.Inputs {
		if err := populatePsbtInput(&packet.Inputs[i], in, params); err != nil {
			return nil, err
		}
	}
	for i, out := range sel.Outputs {
		out.Source.UpdatePSBTOutput(&packet.Outputs[i])
	}

	return packet, nil
}

func populatePsbtInput(pin *psbt.PInput, in coininput.Input, params Params) error {
	if foreign, ok := in.ForeignPSBTInput(); ok {
		*pin = *foreign
		return nil
	}

	plan, ok := in.Plan()
	if !ok {
		panic("psbtassembler: input candidate must carry either a plan or a finalized foreign psbt input")
	}

	plan.UpdatePSBTInput(pin)

	witnessVersion, hasWitnessVersion := plan.WitnessVersion()
	if hasWitnessVersion {
		txout := in.PrevTxOut()
		pin.WitnessUtxo = &txout
	}

	if prevTx := in.PrevTx(); prevTx != nil {
		pin.NonWitnessUtxo = prevTx
	}

	if pin.NonWitnessUtxo == nil {
		outpoint := in.PrevOutpoint().String()
		if !hasWitnessVersion {
			return missingFullTxForLegacyInput(outpoint)
		}
		if params.MandateFullTxForSegwitV0 && witnessVersion == coininput.WitnessV0 {
			return missingFullTxForSegwitV0Input(outpoint)
		}
	}

	return nil
}
