// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prepare

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// maxLineSize bounds one raw JSONL record. Embedding vectors make paper
// records large, so the scanner buffer is generous.
const maxLineSize = 16 * 1024 * 1024

// eachLine streams the non-blank lines of the given files, in order.
func eachLine(files []string, fn func(line []byte) error) error {
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file, err)
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			if err := fn(line); err != nil {
				f.Close()
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return fmt.Errorf("reading %s: %w", file, err)
		}
		f.Close()
	}
	return nil
}
