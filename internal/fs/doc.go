// Package fs provides the local filesystem abstraction behind the local
// low-level primitive and blobstore.LocalStore.
//
//   - [File]: an open file with positional read/write
//   - [FileSystem]: open, stat, rename, remove and directory operations
//
// # Implementations
//
//   - [LocalFS]: production implementation on top of the os package
//   - [FaultyFS]: wraps another FileSystem and injects I/O errors
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
//
// Tests inject a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("broken.txt", fs.Fault{FailOnRead: true})
//
// Local filesystem calls are not interruptible at the syscall level, so the
// package takes no context.Context.
package fs
