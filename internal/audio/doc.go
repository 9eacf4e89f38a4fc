// Package audio plays 16-bit little-endian PCM through the system audio
// device using oto. A process may own a single oto context, so one Player
// is shared by every sound source; overlapping clips are mixed by oto.
package audio
