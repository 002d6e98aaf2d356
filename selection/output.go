// Package selection holds the final inputs/outputs a coin selection run
// produces, and the output/change-script abstractions the selector and
// PSBT assembler share.
package selection

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// OutputDescriptor is the narrow external contract an output's
// script-producing descriptor satisfies: it derives its own script_pubkey
// and knows how to populate descriptor-derived PSBT output metadata (BIP32
// derivations, taproot internal key). Descriptor parsing itself is an
// external collaborator; this module only ever consumes the interface.
type OutputDescriptor interface {
	ScriptPubkey() []byte
	UpdatePSBTOutput(out *psbt.POutput)
}

// ScriptSource is the source of an output's script_pubkey: either a raw
// script or a descriptor capable of enriching the PSBT output.
type ScriptSource interface {
	ScriptPubkey() []byte
	// UpdatePSBTOutput populates descriptor-derived PSBT output fields; a
	// no-op for a raw-script source.
	UpdatePSBTOutput(out *psbt.POutput)
}

type rawScriptSource struct{ script []byte }

func (s rawScriptSource) ScriptPubkey() []byte                { return s.script }
func (s rawScriptSource) UpdatePSBTOutput(out *psbt.POutput) {}

type descriptorScriptSource struct{ desc OutputDescriptor }

func (s descriptorScriptSource) ScriptPubkey() []byte { return s.desc.ScriptPubkey() }
func (s descriptorScriptSource) UpdatePSBTOutput(out *psbt.POutput) {
	s.desc.UpdatePSBTOutput(out)
}

// FromScript builds a ScriptSource from a raw script_pubkey.
func FromScript(script []byte) ScriptSource { return rawScriptSource{script: script} }

// FromDescriptor builds a ScriptSource backed by a descriptor.
func FromDescriptor(desc OutputDescriptor) ScriptSource { return descriptorScriptSource{desc: desc} }

// Output is a target recipient output: a value plus the source of its
// script_pubkey.
type Output struct {
	Value  int64
	Source ScriptSource
}

// WithScript builds an Output from a raw script_pubkey.
func WithScript(script []byte, value int64) Output {
	return Output{Value: value, Source: FromScript(script)}
}

// WithDescriptor builds an Output from a descriptor.
func WithDescriptor(desc OutputDescriptor, value int64) Output {
	return Output{Value: value, Source: FromDescriptor(desc)}
}

// ScriptPubkey returns this output's script_pubkey.
func (o Output) ScriptPubkey() []byte { return o.Source.ScriptPubkey() }

// TxOut builds the wire.TxOut this output contributes to the unsigned
// transaction.
func (o Output) TxOut() *wire.TxOut {
	return &wire.TxOut{Value: o.Value, PkScript: o.ScriptPubkey()}
}
