package wsframe

import (
	"bytes"
	"compress/flate"
	"errors"
	"io"
	"sync"
)

// deflateTail is the 4-byte trailer RFC 7692 strips from a Z_SYNC_FLUSH
// compressed block on the wire and restores before decompression.
var deflateTail = []byte{0x00, 0x00, 0xff, 0xff}

// ErrWindowBits reports an out-of-range client_max_window_bits value.
var ErrWindowBits = errors.New("wsframe: client_max_window_bits must be between 8 and 15")

// swappableReader is the decompressor's source: each Decode call repoints
// cur at the current message's bytes.
type swappableReader struct {
	cur *bytes.Reader
}

func (s *swappableReader) Read(p []byte) (int, error) {
	if s.cur == nil {
		return 0, io.EOF
	}
	return s.cur.Read(p)
}

func (s *swappableReader) set(r *bytes.Reader) { s.cur = r }

// PerMessageDeflate implements RFC 7692 permessage-deflate using raw
// DEFLATE (compress/flate, the same algorithm zlib runs with
// wbits=-MAX_WBITS): compresses non-control frames and sets RSV1 on the
// first frame of a message, mirroring
// original_source's PerMessageDeflate.
type PerMessageDeflate struct {
	clientNoContextTakeover bool
	serverNoContextTakeover bool
	clientMaxWindowBits     int

	mu          sync.Mutex
	compressBuf *bytes.Buffer
	compressor  *flate.Writer

	decompSrc    *swappableReader
	decompressor io.Reader
	decompWindow []byte // last 32 KiB of decoded output, the next message's dictionary
}

// NewPerMessageDeflate constructs the extension with the negotiated
// parameters (spec.md §4.10 / RFC 7692 §7.1).
func NewPerMessageDeflate(clientNoContextTakeover, serverNoContextTakeover bool, clientMaxWindowBits int) (*PerMessageDeflate, error) {
	if clientMaxWindowBits < 8 || clientMaxWindowBits > 15 {
		return nil, ErrWindowBits
	}
	p := &PerMessageDeflate{
		clientNoContextTakeover: clientNoContextTakeover,
		serverNoContextTakeover: serverNoContextTakeover,
		clientMaxWindowBits:     clientMaxWindowBits,
		compressBuf:             &bytes.Buffer{},
		decompSrc:                &swappableReader{},
	}
	p.resetCompressorLocked()
	p.resetDecompressorLocked()
	return p, nil
}

func (p *PerMessageDeflate) resetCompressorLocked() {
	p.compressBuf.Reset()
	w, _ := flate.NewWriter(p.compressBuf, flate.DefaultCompression)
	p.compressor = w
}

func (p *PerMessageDeflate) resetDecompressorLocked() {
	p.decompressor = flate.NewReader(p.decompSrc)
}

// Encode returns a copy of f with its payload compressed (the original
// frame is left untouched), skipping control frames entirely.
func (p *PerMessageDeflate) Encode(f *Frame) (*Frame, error) {
	if f.OpCode.IsControl() {
		return f, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.compressBuf.Reset()
	if _, err := p.compressor.Write(f.Payload); err != nil {
		return nil, err
	}
	if err := p.compressor.Flush(); err != nil {
		return nil, err
	}

	compressed := p.compressBuf.Bytes()
	if len(compressed) >= 4 {
		compressed = compressed[:len(compressed)-4]
	}
	out := make([]byte, len(compressed))
	copy(out, compressed)

	nf := *f
	nf.Payload = out
	if f.OpCode != OpContinuation {
		nf.RSV1 = true
	}

	if p.serverNoContextTakeover {
		p.resetCompressorLocked()
	}
	return &nf, nil
}

// Decode restores and decompresses f's payload, skipping control frames.
func (p *PerMessageDeflate) Decode(f *Frame) (*Frame, error) {
	if f.OpCode.IsControl() {
		return f, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	withTail := make([]byte, 0, len(f.Payload)+len(deflateTail))
	withTail = append(withTail, f.Payload...)
	withTail = append(withTail, deflateTail...)
	p.decompSrc.set(bytes.NewReader(withTail))

	// A sync-flushed message has no final block, so the reader reports
	// io.ErrUnexpectedEOF once the payload is drained: that is the end of
	// the message. The reader is then reset with the retained window.
	var out bytes.Buffer
	if _, err := io.Copy(&out, p.decompressor); err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	nf := *f
	nf.Payload = out.Bytes()
	if f.OpCode != OpContinuation {
		nf.RSV1 = false
	}

	if p.clientNoContextTakeover {
		p.decompWindow = nil
	} else {
		p.decompWindow = append(p.decompWindow, out.Bytes()...)
		if n := len(p.decompWindow) - 1<<15; n > 0 {
			p.decompWindow = p.decompWindow[n:]
		}
	}
	_ = p.decompressor.(flate.Resetter).Reset(p.decompSrc, p.decompWindow)
	return &nf, nil
}
