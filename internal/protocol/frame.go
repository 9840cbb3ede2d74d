package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxChunkSize caps a single read while consuming a frame body. Bodies
// larger than one chunk are accumulated across bounded reads so a slow or
// adversarial peer can never pin the handler in one unbounded read.
const MaxChunkSize = 16 * 1024 // 16 KiB

// ErrFrameTruncated is returned when the stream ends before the number of
// bytes declared by the length prefix has been received.
var ErrFrameTruncated = errors.New("frame truncated before declared length")

// ReadFrame reads one length-prefixed frame body from r.
//
// The 4-byte big-endian prefix declares the body length (up to 2^32-1
// bytes); the body is then read in MaxChunkSize slices until fully
// consumed. EOF on the prefix read is returned as io.EOF so callers can
// tell a closed connection from a malformed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	body := make([]byte, 0, length)

	remaining := uint64(length)
	for remaining > 0 {
		chunk := remaining
		if chunk > MaxChunkSize {
			chunk = MaxChunkSize
		}

		buf := make([]byte, chunk)
		n, err := io.ReadFull(r, buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrFrameTruncated
			}
			return nil, fmt.Errorf("read frame body: %w", err)
		}

		body = append(body, buf[:n]...)
		remaining -= uint64(n)
	}

	return body, nil
}

// WriteFrame writes body to w prefixed with its 4-byte big-endian length.
func WriteFrame(w io.Writer, body []byte) error {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))

	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write frame prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

// ReadRequest reads and decodes one request frame from r.
//
// Any failure other than a clean EOF before the first byte means the frame
// is unusable; the caller must answer with BadRequest and must not
// dispatch.
func ReadRequest(r io.Reader) (*Request, error) {
	body, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	return &req, nil
}

// WriteRequest encodes req and writes it to w as one frame. Used by clients
// and tests; the server only reads requests.
func WriteRequest(w io.Writer, req *Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return WriteFrame(w, body)
}

// ReadResponse reads and decodes one response frame from r. The payload is
// left as decoded JSON (map/slice/primitive); callers re-interpret it per
// operation. Used by clients and tests.
func ReadResponse(r io.Reader) (*Response, error) {
	body, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}

	var res Response
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	return &res, nil
}

// WriteResponse encodes res and writes it to w as one frame.
func WriteResponse(w io.Writer, res *Response) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode response body: %w", err)
	}
	return WriteFrame(w, body)
}
