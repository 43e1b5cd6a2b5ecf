package scorecache

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/word"
)

// On-disk layout, little-endian:
//
//	magic "WENT" | version u8 | dim u32 | fingerprint u64 |
//	dim*5 word bytes | dim*dim pattern bytes | xxhash u64 of all preceding bytes
const (
	formatVersion = 1
	maxDim        = 1 << 16
	headerSize    = 4 + 1 + 4 + 8
	checksumSize  = 8
	// matrix bytes are read in chunks of this size so a header that
	// overstates dim cannot force one huge allocation.
	readChunk = 1 << 20
)

// fileSize is the exact length of a saved cache of dimension dim.
func fileSize(dim int) int64 {
	d := int64(dim)
	return headerSize + d*word.Length + d*d + checksumSize
}

// readBounded reads exactly n bytes, growing the buffer only as data arrives.
func readBounded(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, 0, min(n, readChunk))
	for len(buf) < n {
		want := min(n-len(buf), readChunk)
		buf = slices.Grow(buf, want)
		got, err := io.ReadFull(r, buf[len(buf):len(buf)+want])
		buf = buf[:len(buf)+got]
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

var magic = [4]byte{'W', 'E', 'N', 'T'}

// Save writes the cache to w.
func (c *Cache) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d := xxhash.New()
	mw := io.MultiWriter(bw, d)

	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	hdr[4] = formatVersion
	binary.LittleEndian.PutUint32(hdr[5:9], uint32(c.dim))
	binary.LittleEndian.PutUint64(hdr[9:17], c.fingerprint)
	if _, err := mw.Write(hdr[:]); err != nil {
		return err
	}
	for _, wd := range c.words {
		if _, err := mw.Write(wd[:]); err != nil {
			return err
		}
	}
	if _, err := mw.Write(c.matrix); err != nil {
		return err
	}
	var sum [8]byte
	binary.LittleEndian.PutUint64(sum[:], d.Sum64())
	if _, err := bw.Write(sum[:]); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a cache written by Save. Anything that does not decode cleanly
// is reported as ErrCorrupt.
func Load(r io.Reader) (*Cache, error) {
	d := xxhash.New()
	br := bufio.NewReader(r)
	tr := io.TeeReader(br, d)

	var hdr [headerSize]byte
	if _, err := io.ReadFull(tr, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrCorrupt, err)
	}
	if [4]byte(hdr[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if hdr[4] != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, hdr[4])
	}
	dim := int(binary.LittleEndian.Uint32(hdr[5:9]))
	if dim > maxDim {
		return nil, fmt.Errorf("%w: dimension %d too large", ErrCorrupt, dim)
	}
	c := &Cache{
		dim:         dim,
		fingerprint: binary.LittleEndian.Uint64(hdr[9:17]),
		words:       make([]word.Word, dim),
	}
	wordBytes, err := readBounded(tr, dim*word.Length)
	if err != nil {
		return nil, fmt.Errorf("%w: reading words: %v", ErrCorrupt, err)
	}
	for i := range c.words {
		w, err := word.FromString(string(wordBytes[i*word.Length : (i+1)*word.Length]))
		if err != nil {
			return nil, fmt.Errorf("%w: word %d: %v", ErrCorrupt, i, err)
		}
		c.words[i] = w
	}
	if c.matrix, err = readBounded(tr, dim*dim); err != nil {
		return nil, fmt.Errorf("%w: reading matrix: %v", ErrCorrupt, err)
	}
	computed := d.Sum64()
	var sum [checksumSize]byte
	// the checksum itself is read past the tee so it is not hashed
	if _, err := io.ReadFull(br, sum[:]); err != nil {
		return nil, fmt.Errorf("%w: reading checksum: %v", ErrCorrupt, err)
	}
	if binary.LittleEndian.Uint64(sum[:]) != computed {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	if Fingerprint(c.words) != c.fingerprint {
		return nil, fmt.Errorf("%w: fingerprint does not match stored words", ErrCorrupt)
	}
	for _, v := range c.matrix {
		if v >= feedback.NumPatterns {
			return nil, fmt.Errorf("%w: pattern index %d out of range", ErrCorrupt, v)
		}
	}
	return c, nil
}

// SaveFile writes the cache to path, creating parent directories. The file is
// written under a temporary name and renamed into place.
func (c *Cache) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// LoadFile loads the cache stored at path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist). The file length must agree with
// the dimension in its header before any payload is read.
func LoadFile(path string) (*Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	var hdr [headerSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrCorrupt, err)
	}
	dim := int(binary.LittleEndian.Uint32(hdr[5:9]))
	if dim > maxDim || fi.Size() != fileSize(dim) {
		return nil, fmt.Errorf("%w: file is %d bytes, header dimension %d needs %d",
			ErrCorrupt, fi.Size(), dim, fileSize(dim))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return Load(f)
}

// LoadOrBuild returns the cache at path if it was built for exactly words.
// An absent, corrupt, or stale file is rebuilt and saved back; only failures
// reading an existing file or writing the new one are returned.
func LoadOrBuild(ctx context.Context, path string, words []word.Word, opts BuildOptions) (*Cache, error) {
	c, err := LoadFile(path)
	switch {
	case err == nil:
		verr := c.Validate(words)
		if verr == nil {
			log.Info().Str("path", path).Int("dim", c.Dim()).Msg("loaded-score-cache")
			return c, nil
		}
		log.Warn().Err(verr).Str("path", path).Msg("stale-score-cache-rebuilding")
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", path).Msg("no-score-cache-building")
	case errors.Is(err, ErrCorrupt):
		log.Warn().Err(err).Str("path", path).Msg("corrupt-score-cache-rebuilding")
	default:
		return nil, err
	}

	c, err = Build(ctx, words, opts)
	if err != nil {
		return nil, err
	}
	if err := c.SaveFile(path); err != nil {
		return nil, fmt.Errorf("saving score cache: %w", err)
	}
	log.Info().Str("path", path).Msg("saved-score-cache")
	return c, nil
}
