// Package serialization implements the .born container used for fcnet checkpoints.
//
//	Layout (v2):
//	  0x00 [4]  magic "BORN"
//	  0x04 [4]  format version (uint32 LE)
//	  0x08 [4]  flags (uint32 LE)
//	  0x0C [4]  reserved
//	  0x10 [8]  JSON header size (uint64 LE)
//	  0x18 [8]  tensor data size (uint64 LE)
//	  0x20 [32] SHA-256 of the tensor data
//	  0x40      JSON header
//	            zero padding to a 64-byte boundary
//	            tensor data, concatenated in header order
//
// The JSON header carries the tensor table plus the network architecture,
// so a checkpoint can be rebuilt without any out-of-band description.
// Tensors are always written in name order: saving the same state twice
// produces identical tensor data and checksum.
package serialization
