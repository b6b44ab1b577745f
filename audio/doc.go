// Package audio decodes and encodes the canonical WAV payloads exchanged
// with transcription engines: RIFF/WAVE, PCM, mono, 16-bit little-endian,
// 16 kHz, with a 44-byte header.
package audio
