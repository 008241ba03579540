//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// File returns the SHA-256 checksum of a file, e.g., to record which coverage file a report
// describes
func File(path string) (string, error) {
	fileFd, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fileFd.Close()
	return Reader(fileFd)
}

// Reader returns the SHA-256 checksum of everything read from r
func Reader(r io.Reader) (string, error) {
	hasher := sha256.New()
	_, err := io.Copy(hasher, r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
