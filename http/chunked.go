package http

import "bytes"

// chunkedDecoder incrementally decodes an HTTP chunked transfer-coded body:
// a sequence of "<hex-size>\r\n<data>\r\n" chunks terminated by a
// zero-size chunk, optionally followed by trailer headers and a final
// CRLF. It consumes from a growing buffer the same way the rest of the
// parser does: feed whatever bytes are available, get back how many were
// consumed, and keep calling until done.
type chunkedDecoder struct {
	body    []byte
	trailer Headers

	state       chunkedState
	remaining   int64 // bytes left in the current chunk's data
	sawLastZero bool
}

type chunkedState int

const (
	chunkedSize chunkedState = iota
	chunkedData
	chunkedDataCRLF
	chunkedTrailer
	chunkedDone
)

func newChunkedDecoder() *chunkedDecoder {
	return &chunkedDecoder{state: chunkedSize}
}

// feed consumes as much of buf as it can, returning the number of bytes
// consumed. Call Done to check whether the body is fully decoded.
func (d *chunkedDecoder) feed(buf []byte) (int, error) {
	total := 0
	for total < len(buf) && d.state != chunkedDone {
		switch d.state {
		case chunkedSize:
			n, err := d.consumeSizeLine(buf[total:])
			if n == 0 {
				return total, err
			}
			total += n

		case chunkedData:
			n := d.consumeData(buf[total:])
			total += n

		case chunkedDataCRLF:
			n, err := d.consumeDataCRLF(buf[total:])
			if n == 0 {
				return total, err
			}
			total += n

		case chunkedTrailer:
			n, err := d.consumeTrailer(buf[total:])
			if n == 0 {
				return total, err
			}
			total += n
		}
	}
	return total, nil
}

func (d *chunkedDecoder) done() bool { return d.state == chunkedDone }

func (d *chunkedDecoder) consumeSizeLine(buf []byte) (int, error) {
	idx := bytes.Index(buf, crlf)
	if idx < 0 {
		if len(buf) > maxChunkSizeLine {
			return 0, newParseError(ErrKindMalformed, "chunk size line too long")
		}
		return 0, errNeedMore
	}
	line := buf[:idx]
	if semi := bytes.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi] // chunk extensions are ignored, not validated
	}
	size, err := parseHexInt(line)
	if err != nil {
		return 0, newParseError(ErrKindMalformed, "invalid chunk size")
	}
	d.remaining = size
	if size == 0 {
		d.sawLastZero = true
		d.state = chunkedTrailer
	} else {
		d.state = chunkedData
	}
	return idx + len(crlf), nil
}

func (d *chunkedDecoder) consumeData(buf []byte) int {
	n := len(buf)
	if int64(n) > d.remaining {
		n = int(d.remaining)
	}
	d.body = append(d.body, buf[:n]...)
	d.remaining -= int64(n)
	if d.remaining == 0 {
		d.state = chunkedDataCRLF
	}
	return n
}

func (d *chunkedDecoder) consumeDataCRLF(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, errNeedMore
	}
	if buf[0] != '\r' || buf[1] != '\n' {
		return 0, newParseError(ErrKindMalformed, "missing chunk trailing CRLF")
	}
	d.state = chunkedSize
	return 2, nil
}

func (d *chunkedDecoder) consumeTrailer(buf []byte) (int, error) {
	idx := bytes.Index(buf, crlf)
	if idx < 0 {
		if len(buf) > maxHeaderLineLen {
			return 0, newParseError(ErrKindMalformed, "trailer line too long")
		}
		return 0, errNeedMore
	}
	if idx == 0 {
		d.state = chunkedDone
		return len(crlf), nil
	}
	key, value, err := parseHeaderLine(buf[:idx])
	if err != nil {
		return 0, err
	}
	d.trailer.Add(key, value)
	return idx + len(crlf), nil
}

func parseHexInt(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errEmptyInt
	}
	var n int64
	for _, c := range b {
		var v int64
		switch {
		case c >= '0' && c <= '9':
			v = int64(c - '0')
		case c >= 'a' && c <= 'f':
			v = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = int64(c-'A') + 10
		default:
			return 0, errEmptyInt
		}
		n = n<<4 | v
		if n > maxBodySize {
			return 0, errEmptyInt
		}
	}
	return n, nil
}
