package wikiredirect

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"strings"
)

// Snapshot layout, all integers little endian:
//
//	magic    [4]byte "WRDR"
//	version  uint32
//	count    uvarint
//	count x { source len uvarint, source, target len uvarint, target }
//	checksum uint32, CRC-32 (IEEE) of everything before it
//
// Snapshots are a private cache of a Redirects index.  They are only
// expected to load in the version that wrote them.
const (
	snapshotMagic   = "WRDR"
	SnapshotVersion = 1
)

// maxSnapshotHint caps how many entries are allocated up front.
// Larger indexes grow as they load.
const maxSnapshotHint = 1 << 16

// WriteSnapshot writes the index in snapshot form.
func WriteSnapshot(w io.Writer, r *Redirects) error {
	bw := bufio.NewWriter(w)
	crc := crc32.NewIEEE()
	out := io.MultiWriter(bw, crc)

	var hdr [8]byte
	copy(hdr[:4], snapshotMagic)
	binary.LittleEndian.PutUint32(hdr[4:], SnapshotVersion)
	if _, err := out.Write(hdr[:]); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	var buf [binary.MaxVarintLen64]byte
	putString := func(s string) error {
		n := binary.PutUvarint(buf[:], uint64(len(s)))
		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}
		_, err := io.WriteString(out, s)
		return err
	}

	n := binary.PutUvarint(buf[:], uint64(r.Len()))
	if _, err := out.Write(buf[:n]); err != nil {
		return fmt.Errorf("writing snapshot count: %w", err)
	}

	var err error
	r.Each(func(source, target string) bool {
		if err = putString(source); err != nil {
			return false
		}
		err = putString(target)
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("writing snapshot entries: %w", err)
	}

	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc.Sum32())
	if _, err := bw.Write(sum[:]); err != nil {
		return fmt.Errorf("writing snapshot checksum: %w", err)
	}
	return bw.Flush()
}

// crcReader checksums everything read through it.
type crcReader struct {
	r   *bufio.Reader
	crc hash.Hash32
}

func (c *crcReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.crc.Write(p[:n])
	return n, err
}

func (c *crcReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.crc.Write([]byte{b})
	}
	return b, err
}

// ReadSnapshot reads an index written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Redirects, error) {
	cr := &crcReader{r: bufio.NewReader(r), crc: crc32.NewIEEE()}

	var hdr [8]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrBadSnapshot, err)
	}
	if string(hdr[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadSnapshot, hdr[:4])
	}
	if v := binary.LittleEndian.Uint32(hdr[4:]); v != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, v)
	}

	count, err := binary.ReadUvarint(cr)
	if err != nil {
		return nil, fmt.Errorf("%w: reading count: %v", ErrBadSnapshot, err)
	}

	getString := func() (string, error) {
		l, err := binary.ReadUvarint(cr)
		if err != nil {
			return "", err
		}
		if l > maxLineSize {
			return "", fmt.Errorf("string length %d too long", l)
		}
		if l > 4096 {
			// Grow with the data actually read rather than the
			// claimed length.
			var sb strings.Builder
			if _, err := io.CopyN(&sb, cr, int64(l)); err != nil {
				return "", err
			}
			return sb.String(), nil
		}
		b := make([]byte, l)
		if _, err := io.ReadFull(cr, b); err != nil {
			return "", err
		}
		return string(b), nil
	}

	// count is untrusted until the checksum is read.
	hint := count
	if hint > maxSnapshotHint {
		hint = maxSnapshotHint
	}
	rv := NewRedirectsSize(int(hint))
	for i := uint64(0); i < count; i++ {
		source, err := getString()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d source: %v", ErrBadSnapshot, i, err)
		}
		target, err := getString()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d target: %v", ErrBadSnapshot, i, err)
		}
		rv.Put(source, target)
	}

	want := cr.crc.Sum32()
	var sum [4]byte
	if _, err := io.ReadFull(cr.r, sum[:]); err != nil {
		return nil, fmt.Errorf("%w: reading checksum: %v", ErrBadSnapshot, err)
	}
	if got := binary.LittleEndian.Uint32(sum[:]); got != want {
		return nil, fmt.Errorf("%w: checksum %08x, expected %08x",
			ErrBadSnapshot, got, want)
	}
	return rv, nil
}
