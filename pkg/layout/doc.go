// Package layout computes how a shared region is partitioned between the
// two sides of a channel.
//
// A region of size R is split into two equal buffers and two control bytes.
// For the host role the layout is:
//
//	+---------------------+------------------------------+
//	| 0 .. R/2-2          | host -> peer buffer          |
//	| R/2-1 .. R-3        | peer -> host buffer          |
//	| R-2                 | control byte, host -> peer   |
//	| R-1                 | control byte, peer -> host   |
//	+---------------------+------------------------------+
//
// The peer layout is the mirror image: its output range is the host's input
// range and vice versa, and the same holds for the control bytes. Both sides
// derive compatible layouts from the region size alone, without negotiation.
package layout
