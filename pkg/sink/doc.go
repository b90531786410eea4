// Package sink provides destination strategies for accepted upload parts.
//
// A [Sink] decides where the bytes of an accepted multipart file part are
// written; the admission decision itself happens elsewhere. Three
// implementations are provided:
//
//   - [Disk]: streams parts to files under a root directory with
//     UUID-based names, so client filenames never become paths.
//   - [Memory]: accumulates parts in per-part buffers and hands the bytes
//     back through FileInfo.Content.
//   - [S3]: buffers parts and uploads them to S3-compatible object storage
//     on finalization.
//
// # Usage
//
//	disk, err := sink.NewDisk("/var/uploads")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dst, err := disk.Open(ctx, part.FileName(), contentType)
//	if err != nil {
//	    return err
//	}
//	if _, err := io.Copy(dst, part); err != nil {
//	    _ = dst.Discard(ctx) // removes partial writes
//	    return err
//	}
//	info, err := dst.Close(ctx)
//
// Every [Destination] supports Discard, which removes any bytes already
// written. This is what makes mid-stream aborts cheap: an upload cut off
// by a size limit leaves nothing behind.
package sink
