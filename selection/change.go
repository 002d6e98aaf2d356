package selection

import "github.com/btcsuite/btcd/btcutil/psbt"

// ChangeScript is a change output's script source, carrying both the
// script_pubkey and the satisfaction weight of its eventual future spend —
// needed by the selector's waste computation (NoDustLeastWaste change
// policy), which a plain recipient Output never requires.
type ChangeScript interface {
	ScriptSource
	SatisfactionWeight() int64
}

// ChangeDescriptor is an OutputDescriptor that additionally knows the
// satisfaction weight of spending the script it derives, letting
// NewChangeScriptFromDescriptor compute weight automatically instead of
// requiring the caller to supply it.
type ChangeDescriptor interface {
	OutputDescriptor
	SatisfactionWeight() int64
}

type explicitChangeScript struct {
	script    []byte
	satWeight int64
}

func (c explicitChangeScript) ScriptPubkey() []byte              { return c.script }
func (c explicitChangeScript) UpdatePSBTOutput(out *psbt.POutput) {}
func (c explicitChangeScript) SatisfactionWeight() int64          { return c.satWeight }

// NewChangeScriptExplicit builds a ChangeScript from a raw script whose
// future spend the caller already knows the satisfaction weight of.
func NewChangeScriptExplicit(script []byte, satisfactionWeight int64) ChangeScript {
	return explicitChangeScript{script: script, satWeight: satisfactionWeight}
}

type descriptorChangeScript struct{ desc ChangeDescriptor }

func (c descriptorChangeScript) ScriptPubkey() []byte { return c.desc.ScriptPubkey() }
func (c descriptorChangeScript) UpdatePSBTOutput(out *psbt.POutput) {
	c.desc.UpdatePSBTOutput(out)
}
func (c descriptorChangeScript) SatisfactionWeight() int64 { return c.desc.SatisfactionWeight() }

// NewChangeScriptFromDescriptor builds a ChangeScript backed by a
// descriptor, deriving its satisfaction weight automatically.
func NewChangeScriptFromDescriptor(desc ChangeDescriptor) ChangeScript {
	return descriptorChangeScript{desc: desc}
}
