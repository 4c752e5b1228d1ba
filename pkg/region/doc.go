// Package region provides the random-access byte stores a channel runs over.
//
// A Store is the only resource shared between the two sides of a channel.
// Production code binds it to a disk image or block device with OpenFile;
// tests use Memory, which can be shared by a host and a peer channel inside
// one process.
package region
