//go:build !unix

package mmap

import (
	"io"
	"os"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, bool, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, false, err
	}
	return data, nil, false, nil
}

func osAdvise([]byte, AccessPattern) error {
	return nil
}
