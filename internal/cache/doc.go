// Package cache keeps synthesised announcement audio so a phrase that was
// spoken once does not go through the speech engine again. Memory is an
// LRU bounded by bytes, Disk persists zstd-compressed clips across runs and
// Tiered combines both.
package cache
