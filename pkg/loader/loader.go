// Package loader reads freestanding program images into simulator memory.
//
// Two formats are supported: a flat binary copied verbatim, and a text
// format with one 32-bit word per line in hexadecimal with a leading 0x
// prefix and an optional # comment, for example:
//
//	0x00221820   # add r3, r1, r2
//
// Text-format words are stored big-endian at successive word addresses.
package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hamish-milne/mipsim/pkg/cpu"
)

// Binary copies a flat image from r into memory starting at base and
// returns the number of bytes loaded.
func Binary(m cpu.Memory, base uint32, r io.Reader) (uint32, error) {
	buf := make([]byte, 4096)
	var n uint32
	for {
		read, err := r.Read(buf)
		if read > 0 {
			if werr := m.Write(base+n, buf[:read]); werr != nil {
				return n, werr
			}
			n += uint32(read)
		}
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%w: %v", cpu.FaultFileRead, err)
		}
	}
}

// Hex reads the one-word-per-line text format from r into memory starting
// at base and returns the number of bytes loaded.
func Hex(m cpu.Memory, base uint32, r io.Reader) (uint32, error) {
	scanner := bufio.NewScanner(r)
	var n uint32
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, err := strconv.ParseUint(line, 0, 32)
		if err != nil {
			return n, fmt.Errorf("%w: line %q", cpu.FaultInvalidArgument, line)
		}
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(value))
		if err := m.Write(base+n, b[:]); err != nil {
			return n, err
		}
		n += 4
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("%w: %v", cpu.FaultFileRead, err)
	}
	return n, nil
}
