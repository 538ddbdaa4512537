// Package netstr implements incremental encoding and decoding of netstrings.
//
// Netstrings are a simple, self-delimiting binary protocol for encoding
// byte sequences. The format is: <length>:<payload>,
//
// Where <length> is the decimal ASCII representation of the payload length,
// followed by a colon, the payload bytes, and a terminating comma.
//
// # Examples
//
// Standard netstring:
//
//	"5:hello,"  // encodes the 5-byte string "hello"
//	"0:,"       // encodes an empty payload
//
// Keyed netstring (first byte is the key):
//
//	"6:nBrian," // key='n', value="Brian"
//	"9:tmy-token,"  // key='t', value="my-token"
//
// # Basic Usage
//
// Encoding:
//
//	var buf bytes.Buffer
//	enc := netstr.NewEncoder(&buf)
//	enc.Encode([]byte("hello"))          // writes "5:hello,"
//	enc.EncodeKeyed('t', []byte("token")) // writes "6:ttoken,"
//
// Decoding:
//
//	dec := netstr.NewDecoder(bytes.NewReader(data))
//	payload, err := dec.Decode()          // allocates the payload
//	n, err := dec.ReadFrame(buf)          // fills buf[:n]
//	err = dec.Skip()                      // drops one netstring
//	key, value, err := dec.DecodeKeyed()
//
// # Non-blocking streams
//
// Every read and write is an explicit state machine (ReadOp, AllocOp, SkipOp,
// WriteOp) with a single Step method. A source or sink that has nothing to
// offer right now returns ErrWouldBlock (the iox convention) or (0, nil);
// Step then returns ErrWouldBlock with all progress kept in the operation,
// and the next Step resumes at the exact byte where the last one stopped:
//
//	op := netstr.NewAllocOp(conn)
//	for {
//		err := op.Step()
//		if errors.Is(err, netstr.ErrWouldBlock) {
//			waitReadable(conn)
//			continue
//		}
//		if err != nil {
//			return err
//		}
//		return handle(op.Bytes())
//	}
//
// Decoder and Encoder drive the same operations with Run and wait between
// attempts, so they suit blocking code.
//
// # Errors
//
// Malformed input yields a *FormatError matching ErrInvalidFormat and one
// of ErrOverflow, ErrSeparator, ErrTerminator or io.ErrUnexpectedEOF.
// ErrBufferTooSmall and ErrWriteRejected are returned as-is. ErrTooLarge is
// returned as-is for a MaxLength violation and wrapped when an allocating read
// meets a length no buffer can hold, so test for it with errors.Is.
// None of these can be recovered from on the same stream: the codec does not
// scan for the next frame boundary, and callers should close the connection.
// io.EOF is returned only when the stream ends cleanly between netstrings.
//
// # Skip predicates
//
// By default, netstrings must be strictly adjacent. SkipASCIIWhitespace,
// SkipUnicodeWhitespace, Lenient and SkipBytes drop filler bytes before the
// length digits, making it easier to debug producers that use echo or println.
//
// Bytes inside the payload are always preserved - they are only skipped between netstrings.
//
// # Security
//
// Decode and AllocOp allocate whatever length the peer declares. Use the
// MaxLength option when reading from untrusted peers, or read into a fixed
// buffer with ReadFrame.
package netstr
