// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/soteria-labs/custodyvm/multisig"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0
)

// Codec does serialization and deserialization of every persisted record.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()
	Codec = codec.NewDefaultManager()

	errs := wrappers.Errs{}

	// The governance action union is a closed set of tagged variants; each
	// concrete type must be registered so proposals round-trip through the
	// codec.
	errs.Add(
		c.RegisterType(&multisig.AddMember{}),
		c.RegisterType(&multisig.RemoveMember{}),
		c.RegisterType(&multisig.ChangeThreshold{}),
		c.RegisterType(&multisig.ChangeTimelock{}),
	)

	errs.Add(
		Codec.RegisterCodec(CodecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
