// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo, even for mono files, so a
// decoded source reports two channels. Feed it through audio.NewMonoMixer
// when a single channel is needed:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(src)
//
// Decoding only; there is no MP3 writer.
package mp3
