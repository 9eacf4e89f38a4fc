// Package engines implements tts.Engine on top of command-line speech
// synthesisers: espeak-ng and Piper (offline) and gTTS (online, converted
// with ffmpeg). Every engine produces 16-bit mono PCM at 22.05 kHz. A fresh
// process is started for every phrase.
package engines
