// Package hash provides checksum and content-hash helpers.
//
// # CRC32-Castagnoli (CRC32C)
//
// Dataset files are fingerprinted with CRC32-Castagnoli, which Go's
// hash/crc32 accelerates with SSE4.2 on x86 and the CRC extension on ARM.
// The same checksum is attached to object-store uploads so a fetched dataset
// can be compared against the locally generated one.
//
//	sum := hash.CRC32C(data)
//
//	h := hash.NewCRC32C()
//	io.Copy(h, f)
//	sum := h.Sum32()
//
// # Content seeds
//
// Seed64 derives a 64-bit seed from arbitrary byte strings (xxhash64). The
// reference engine uses it to turn chunk contents into generator seeds.
package hash
