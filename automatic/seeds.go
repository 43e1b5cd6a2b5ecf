package automatic

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"
)

var ErrBadSeed = errors.New("bad seed")

// NewRunSeed returns a fresh random run seed.
func NewRunSeed() [32]byte {
	var seed [32]byte
	frand.Read(seed[:])
	return seed
}

// ParseSeed decodes a run seed written by EncodeSeed.
func ParseSeed(s string) ([32]byte, error) {
	var seed [32]byte
	s = strings.TrimSpace(s)
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return seed, fmt.Errorf("%w: %v", ErrBadSeed, err)
		}
	}
	if len(decoded) != len(seed) {
		return seed, fmt.Errorf("%w: got %d bytes, expected 32", ErrBadSeed, len(decoded))
	}
	copy(seed[:], decoded)
	return seed, nil
}

func EncodeSeed(seed [32]byte) string {
	return base64.RawURLEncoding.EncodeToString(seed[:])
}

// DeriveSeeds expands a run seed into n per-game seeds. The same run seed
// always gives the same game seeds, so a random-strategy run can be replayed
// from the one value.
func DeriveSeeds(runSeed [32]byte, n int) [][32]byte {
	rng := frand.NewCustom(runSeed[:], 1024, 12)
	seeds := make([][32]byte, n)
	for i := range seeds {
		rng.Read(seeds[i][:])
	}
	return seeds
}

// SaveSeeds writes per-game seeds to a file, one base64 seed per line, in
// secret order.
func SaveSeeds(seeds [][32]byte, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	_, err = writer.WriteString("# Per-game seeds (base64 URL-safe encoded, 32 bytes each), one per secret\n")
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		_, err = writer.WriteString(EncodeSeed(seed) + "\n")
		if err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadSeeds reads seeds saved by SaveSeeds.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seed, err := ParseSeed(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
