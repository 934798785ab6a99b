// Package trace reads processor-reference traces for the coherence
// simulator: a protocol name header followed by whitespace-separated
// "core op address" records, terminated by a core number of -1.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
)

// Record is one processor reference read from a trace.
type Record struct {
	Core    int
	Op      coherence.ProcRequest
	Address uint64
}

// Reader reads a trace one whitespace-delimited token at a time, mirroring
// the `cin >> core >> r_or_w >> hex >> address` loop a trace record is
// parsed from in the original driver.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r for trace reading. Input is consumed lazily, token by
// token, as ReadProtocol and Next need it.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Reader{scanner: s}
}

// ReadProtocol reads the trace's leading protocol-name token.
func (r *Reader) ReadProtocol() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("trace: reading protocol header: %w", err)
		}
		return "", fmt.Errorf("trace: empty input, no protocol header")
	}
	return r.scanner.Text(), nil
}

// Next reads one record. It returns io.EOF once the core-number token reads
// -1, the trace's own end marker rather than end of input.
func (r *Reader) Next() (Record, error) {
	core, ok, err := r.nextInt()
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, fmt.Errorf("trace: unexpected end of input reading core number")
	}
	if core == -1 {
		return Record{}, io.EOF
	}

	if !r.scanner.Scan() {
		return Record{}, fmt.Errorf("trace: unexpected end of input reading op for core %d", core)
	}
	opToken := r.scanner.Text()

	address, ok, err := r.nextHex()
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, fmt.Errorf("trace: unexpected end of input reading address for core %d", core)
	}

	var op coherence.ProcRequest
	switch opToken {
	case "r":
		op = coherence.ProcRd
	case "w":
		op = coherence.ProcWr
	default:
		// An op token that is neither 'r' nor 'w' is silently ignored by
		// the original reader (the address is still consumed to stay in
		// sync); skip the record and return the next one instead.
		return r.Next()
	}

	return Record{Core: core, Op: op, Address: address}, nil
}

func (r *Reader) nextInt() (int, bool, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, false, fmt.Errorf("trace: %w", err)
		}
		return 0, false, nil
	}
	n, err := strconv.Atoi(r.scanner.Text())
	if err != nil {
		return 0, false, fmt.Errorf("trace: parsing core number %q: %w", r.scanner.Text(), err)
	}
	return n, true, nil
}

func (r *Reader) nextHex() (uint64, bool, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, false, fmt.Errorf("trace: %w", err)
		}
		return 0, false, nil
	}
	token := r.scanner.Text()
	addr, err := strconv.ParseUint(trimHexPrefix(token), 16, 64)
	if err != nil {
		return 0, false, fmt.Errorf("trace: parsing address %q: %w", token, err)
	}
	return addr, true, nil
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
