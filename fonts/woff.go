package fonts

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

const (
	woffHeaderSize   = 44
	woffDirEntrySize = 20
	sfntHeaderSize   = 12
	sfntRecordSize   = 16
)

type woffTable struct {
	tag          uint32
	offset       uint32
	compLength   uint32
	origLength   uint32
	origChecksum uint32
}

// decodeWOFF unwraps a WOFF 1.0 container into the plain sfnt file it holds.
// Table order is kept as stored, which the format requires to be sorted by tag.
func decodeWOFF(data []byte) ([]byte, error) {
	if len(data) < woffHeaderSize {
		return nil, fmt.Errorf("woff: header truncated (%d bytes)", len(data))
	}
	be := binary.BigEndian
	flavor := be.Uint32(data[4:8])
	length := be.Uint32(data[8:12])
	numTables := int(be.Uint16(data[12:14]))
	totalSfntSize := uint64(be.Uint32(data[16:20]))
	if int(length) != len(data) {
		return nil, fmt.Errorf("woff: length field %d does not match file size %d", length, len(data))
	}
	if numTables == 0 {
		return nil, fmt.Errorf("woff: no tables")
	}
	if woffHeaderSize+numTables*woffDirEntrySize > len(data) {
		return nil, fmt.Errorf("woff: table directory truncated")
	}

	tables := make([]woffTable, numTables)
	sfntSize := uint64(sfntHeaderSize + numTables*sfntRecordSize)
	for i := range tables {
		e := data[woffHeaderSize+i*woffDirEntrySize:]
		t := woffTable{
			tag:          be.Uint32(e[0:4]),
			offset:       be.Uint32(e[4:8]),
			compLength:   be.Uint32(e[8:12]),
			origLength:   be.Uint32(e[12:16]),
			origChecksum: be.Uint32(e[16:20]),
		}
		if uint64(t.offset)+uint64(t.compLength) > uint64(len(data)) {
			return nil, fmt.Errorf("woff: table %s out of bounds", tagString(t.tag))
		}
		if t.compLength > t.origLength {
			return nil, fmt.Errorf("woff: table %s compressed size exceeds original", tagString(t.tag))
		}
		// Tables inflate into the sfnt, so together they fit its declared size.
		sfntSize += (uint64(t.origLength) + 3) &^ 3
		if sfntSize > totalSfntSize {
			return nil, fmt.Errorf("woff: table %s exceeds declared sfnt size %d", tagString(t.tag), totalSfntSize)
		}
		tables[i] = t
	}

	offset := sfntHeaderSize + numTables*sfntRecordSize
	var out bytes.Buffer
	header := make([]byte, offset)
	be.PutUint32(header[0:4], flavor)
	be.PutUint16(header[4:6], uint16(numTables))
	entrySelector := bits.Len(uint(numTables)) - 1
	searchRange := (1 << entrySelector) * 16
	be.PutUint16(header[6:8], uint16(searchRange))
	be.PutUint16(header[8:10], uint16(entrySelector))
	be.PutUint16(header[10:12], uint16(numTables*16-searchRange))

	body := make([]byte, 0, len(data))
	for i, t := range tables {
		raw := data[t.offset : t.offset+t.compLength]
		if t.compLength < t.origLength {
			zr, err := zlib.NewReader(bytes.NewReader(raw))
			if err != nil {
				return nil, fmt.Errorf("woff: table %s: %w", tagString(t.tag), err)
			}
			inflated := make([]byte, t.origLength)
			if _, err := io.ReadFull(zr, inflated); err != nil {
				zr.Close()
				return nil, fmt.Errorf("woff: table %s: %w", tagString(t.tag), err)
			}
			zr.Close()
			raw = inflated
		}

		rec := header[sfntHeaderSize+i*sfntRecordSize:]
		be.PutUint32(rec[0:4], t.tag)
		be.PutUint32(rec[4:8], t.origChecksum)
		be.PutUint32(rec[8:12], uint32(offset+len(body)))
		be.PutUint32(rec[12:16], t.origLength)

		body = append(body, raw...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}

	out.Grow(len(header) + len(body))
	out.Write(header)
	out.Write(body)
	return out.Bytes(), nil
}

func tagString(tag uint32) string {
	return string([]byte{byte(tag >> 24), byte(tag >> 16), byte(tag >> 8), byte(tag)})
}
