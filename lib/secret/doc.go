// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data: account
// passwords read from prompts or files, and the bytes of session records
// in transit between disk and parser.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock so it cannot be swapped, and marks
// it excluded from core dumps via madvise(MADV_DONTDUMP). On Close the
// memory is zeroed, unlocked, and unmapped. The garbage collector never
// sees the region, so it cannot copy or relocate the secret; this is the
// only way to guarantee the material does not linger in memory after
// release.
//
// [New] allocates a zero-filled buffer; [NewFromBytes] copies existing
// bytes into protected memory and zeros the source; [ReadFromPath] loads a
// secret from a file or stdin. Access the contents with [Buffer.Bytes]
// (a slice into the protected region) or [Buffer.String] (a short-lived
// heap copy for API boundaries that require a string). Any access after
// Close panics; Close is idempotent. [Zero] wipes ordinary heap slices
// that briefly held secret material.
//
// Depends on golang.org/x/sys/unix and nothing else in this module.
package secret
