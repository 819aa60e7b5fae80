// Package canbus encodes vehicle telemetry as classic CAN frames and writes
// them as candump log lines.
//
// One body frame (0x300) and one frame per wheel (0x310 + index) are produced
// per sample. Signals are little-endian fixed-point integers that saturate at
// the ends of their range.
package canbus
