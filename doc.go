// SPDX-License-Identifier: EPL-2.0

// Package audfeat turns a labeled tree of audio recordings into fixed-size
// cepstral feature matrices and a reproducible train/test split.
//
// The data root holds one directory per label:
//
//	data/
//	  no/   0001.wav 0002.wav ...
//	  yes/  0001.wav 0002.wav ...
//
// # Supported Formats
//
//   - WAV (PCM 16/24/32-bit) via formats/wav
//   - AIFF (PCM 16/24/32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// # Quick Start
//
// Transform extracts every file and writes one array per label, plus a
// manifest recording the label order, to the cache:
//
//	cfg := config.Default()
//	report, err := audfeat.Transform(ctx, cfg)
//
// TrainTestData reads the cache back and splits it:
//
//	split, err := audfeat.TrainTestData(ctx, cfg)
//	// split.XTrain, split.YTrain, split.XTest, split.YTest
//
// Each matrix is Shape[0] x Shape[1] (20 x 20 by default) whatever the
// recording length. The split is identical for identical cache, ratio and
// seed.
//
// # Building blocks
//
// The facade wires these packages together; each is usable on its own:
//
//   - audio: streaming sources, mono mixing, resampling, decimation
//   - feature: MFCC extraction and shape fitting
//   - catalog: label to index and one-hot mapping
//   - cache: label arrays and manifest on local disk or S3
//   - corpus: per-label extraction with abort or skip error policy
//   - dataset: assembly and train/test split
//
// See cmd/audfeat for the command line interface.
package audfeat
