// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"github.com/ik5/audfeat/audio"
	"github.com/ik5/audfeat/formats/aiff"
	"github.com/ik5/audfeat/formats/flac"
	"github.com/ik5/audfeat/formats/mp3"
	"github.com/ik5/audfeat/formats/vorbis"
	"github.com/ik5/audfeat/formats/wav"
)

// NewRegistry returns a registry with wav, aiff, mp3, vorbis and flac
// registered under their usual extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(wav.Decoder{}, ".wav", ".wave")
	reg.Register(aiff.Decoder{}, ".aif", ".aiff", ".aifc")
	reg.Register(mp3.Decoder{}, ".mp3")
	reg.Register(vorbis.Decoder{}, ".ogg", ".oga")
	reg.Register(flac.Decoder{}, ".flac")
	return reg
}
