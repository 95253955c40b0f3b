// Package blockio provides buffered, block-oriented file I/O over a pluggable
// low-level primitive.
//
// Callers allocate a fixed-capacity Buffer once and reuse it. A read offers
// the whole buffer to the primitive and then shrinks the buffer's logical
// extent to the number of bytes that arrived; a write transfers exactly the
// current extent.
//
// # Quick Start
//
// Local disk:
//
//	store := lowlevel.New(lowlevel.NewLocalBackend("./data", nil))
//	defer store.Close()
//
//	fsys := blockio.New(store)
//	n, err := fsys.CopyFile("in.txt", "out.txt", 4096)
//
// Object storage:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("files/"))
//	store := lowlevel.New(lowlevel.NewBlobBackend(ctx, s3Store))
//	fsys := blockio.New(store)
//
// # Reading and Writing
//
//	src, _ := fsys.Open("in.txt")
//	defer src.Close()
//
//	buf := blockio.NewBuffer(4096)
//	n, err := src.Read(buf)      // buf.CurrentSize() == n
//	err = dst.Write(buf)         // writes buf.Data()
//
// A read the primitive reports as failed returns a *ReadError and leaves the
// buffer untouched. Opening a path the primitive rejects returns an
// *OpenError. Both match their sentinels with errors.Is.
//
// # Asynchronous Operations
//
// AsyncRead and AsyncWrite return a Completion that resolves once the
// primitive delivers its result:
//
//	c, _ := src.AsyncRead(buf, func(n int) { log.Println("read", n) })
//	n, err := c.Wait(ctx)
//
// The async read path does not turn a failed read into an error: the
// primitive's -1 is delivered as-is and the buffer is left unchanged.
//
// # Observability
//
// Structured logging uses log/slog through Logger (WithLogger, WithLogLevel).
// Operation counts and latencies can be collected with WithMetricsCollector.
package blockio
