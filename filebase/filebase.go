// Package filebase implements the single-file storage substrate shared by
// Papyrus's file-backed layers: a checksummed 16-byte header (magic,
// version, type, flags, an advisory single-writer PID lock) followed by an
// opaque data section, plus positioned I/O over that data section.
package filebase

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/atomic"

	"papyrus/types"
)

const filePerm = 0o644

// FileBase is a single-file storage substrate: a 16-byte header followed by
// a data section. All data-section offsets passed to the positioned I/O
// methods are logical — offset 0 is the first byte after the header.
type FileBase struct {
	path string
	file *os.File
	meta Meta
}

// Open implements the FileBase open protocol (§4.2):
//
//  1. If the file exists, its header is read and verified (magic, version,
//     checksum, and — if meta is non-nil — TYPE/FLAGS); otherwise TYPE/FLAGS
//     are inherited from the header.
//  2. If the file does not exist, meta must be supplied; a fresh header
//     (PID=0) is written.
//  3. The PID lock is then acquired: if the header's PID is neither 0 nor
//     the current process, Open fails with Locked; otherwise the header is
//     rewritten with PID = current process id.
func Open(path string, meta *Meta) (*FileBase, error) {
	_, statErr := os.Stat(path)
	exists := statErr == nil

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		return nil, types.WrapError(types.KindIOError, "opening file", err)
	}

	fb := &FileBase{path: path, file: file}

	if exists {
		h, err := fb.readHeader()
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		if err := verifyMeta(h, meta); err != nil {
			_ = file.Close()
			return nil, err
		}
		fb.meta = Meta{Typ: h.typ, Flags: h.flags}
	} else {
		if meta == nil {
			_ = file.Close()
			_ = os.Remove(path)
			return nil, types.NewError(types.KindInvalidArgument, "cannot create file without meta")
		}
		fb.meta = *meta
		if err := fb.writeHeader(header{typ: meta.Typ, flags: meta.Flags, pid: 0}); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	if err := fb.acquireLock(); err != nil {
		_ = file.Close()
		return nil, err
	}

	return fb, nil
}

func verifyMeta(h header, meta *Meta) error {
	if meta == nil {
		return nil
	}
	if h.typ != meta.Typ || h.flags != meta.Flags {
		return types.NewError(types.KindInvalidArgument, "file header type/flags mismatch")
	}
	return nil
}

// Meta reports the (TYPE, FLAGS) recorded in the file header, whether they
// were supplied at creation time or inherited on reopen.
func (fb *FileBase) Meta() Meta { return fb.meta }

func (fb *FileBase) readHeader() (header, error) {
	var buf [HeaderSize]byte
	if _, err := fb.file.ReadAt(buf[:], 0); err != nil {
		return header{}, types.WrapError(types.KindIOError, "reading file header", err)
	}
	return unmarshalHeader(buf, nil)
}

func (fb *FileBase) writeHeader(h header) error {
	buf := h.marshal()
	if _, err := fb.file.WriteAt(buf[:], 0); err != nil {
		return types.WrapError(types.KindIOError, "writing file header", err)
	}
	return nil
}

// acquireLock implements step 3 of the open protocol.
func (fb *FileBase) acquireLock() error {
	h, err := fb.readHeader()
	if err != nil {
		return err
	}

	pid := uint32(os.Getpid())
	if h.pid != 0 && h.pid != pid {
		return types.WrapError(types.KindLocked, "file locked by another process", nil)
	}

	h.pid = pid
	return fb.writeHeader(h)
}

// Locked reports whether a process with the given pid would be blocked from
// acquiring this file's lock right now — that is, whether the header
// currently records a different, nonzero owner.
func (fb *FileBase) Locked(pid uint32) bool {
	h, err := fb.readHeader()
	if err != nil {
		return false
	}
	return h.pid != 0 && h.pid != pid
}

// ensureOpen reopens the underlying file handle if a prior Close left it
// nil — the idempotent reopen described in §4.2.
func (fb *FileBase) ensureOpen() error {
	if fb.file != nil {
		return nil
	}
	file, err := os.OpenFile(fb.path, os.O_RDWR, filePerm)
	if err != nil {
		return types.WrapError(types.KindIOError, "reopening file", err)
	}
	fb.file = file
	return nil
}

// ReadAt reads into buf starting at the logical data-section offset off.
func (fb *FileBase) ReadAt(buf []byte, off int64) (int, error) {
	if err := fb.ensureOpen(); err != nil {
		return 0, err
	}
	n, err := fb.file.ReadAt(buf, HeaderSize+off)
	if err != nil {
		return n, types.WrapError(types.KindIOError, "reading data section", err)
	}
	return n, nil
}

// WriteAt writes buf starting at the logical data-section offset off.
func (fb *FileBase) WriteAt(buf []byte, off int64) (int, error) {
	if err := fb.ensureOpen(); err != nil {
		return 0, err
	}
	n, err := fb.file.WriteAt(buf, HeaderSize+off)
	if err != nil {
		return n, types.WrapError(types.KindIOError, "writing data section", err)
	}
	return n, nil
}

// ReadToEnd returns the entire data section.
func (fb *FileBase) ReadToEnd() ([]byte, error) {
	if err := fb.ensureOpen(); err != nil {
		return nil, err
	}
	info, err := fb.file.Stat()
	if err != nil {
		return nil, types.WrapError(types.KindIOError, "stat file", err)
	}
	size := info.Size() - HeaderSize
	if size < 0 {
		size = 0
	}
	buf := make([]byte, size)
	if size > 0 {
		if _, err := fb.file.ReadAt(buf, HeaderSize); err != nil && err != io.EOF {
			return nil, types.WrapError(types.KindIOError, "reading data section", err)
		}
	}
	return buf, nil
}

// Append writes buf at the current end of the file (i.e. the end of the
// data section).
func (fb *FileBase) Append(buf []byte) error {
	if err := fb.ensureOpen(); err != nil {
		return err
	}
	if _, err := fb.file.Seek(0, io.SeekEnd); err != nil {
		return types.WrapError(types.KindIOError, "seeking to end of file", err)
	}
	if _, err := fb.file.Write(buf); err != nil {
		return types.WrapError(types.KindIOError, "appending to file", err)
	}
	return nil
}

// Close erases the PID lock, syncs, and closes the underlying file handle.
// It is idempotent.
func (fb *FileBase) Close() error {
	if fb.file == nil {
		return nil
	}

	h, err := fb.readHeader()
	if err == nil {
		h.pid = 0
		if werr := fb.writeHeader(h); werr != nil {
			log.Printf("filebase: failed to clear pid lock on close: %v", werr)
		}
	} else {
		log.Printf("filebase: failed to read header before close: %v", err)
	}

	syncErr := fb.file.Sync()
	closeErr := fb.file.Close()
	fb.file = nil

	if closeErr != nil {
		return types.WrapError(types.KindIOError, "closing file", closeErr)
	}
	if syncErr != nil {
		return types.WrapError(types.KindIOError, "syncing file", syncErr)
	}
	return nil
}

// Unlink closes the file (best-effort) and removes the path. Errors from
// the removal itself are swallowed — the OS may delay deletion — matching
// the source's unlink semantics.
func (fb *FileBase) Unlink() {
	_ = fb.Close()
	if err := os.Remove(fb.path); err != nil && !os.IsNotExist(err) {
		log.Printf("filebase: unlink %s: %v", fb.path, err)
	}
}

// MigrateFrom closes the current handle, atomically replaces the content at
// fb.path with the content of otherPath, removes otherPath, and reopens
// fb.path — re-verifying the header and inferring its meta, since no meta
// is supplied on reopen.
//
// The source describes this step as a rename; Papyrus instead copies
// otherPath's bytes into fb.path via an atomic temp-file-then-rename write
// (github.com/natefinch/atomic), which additionally tolerates otherPath
// living on a different filesystem than fb.path.
func (fb *FileBase) MigrateFrom(otherPath string) error {
	if err := fb.Close(); err != nil {
		return err
	}

	src, err := os.Open(otherPath)
	if err != nil {
		return types.WrapError(types.KindIOError, "opening migration source", err)
	}
	writeErr := atomic.WriteFile(fb.path, src)
	_ = src.Close()
	if writeErr != nil {
		return types.WrapError(types.KindIOError, "migrating file", writeErr)
	}

	if err := os.Remove(otherPath); err != nil && !os.IsNotExist(err) {
		log.Printf("filebase: removing migration source %s: %v", otherPath, err)
	}

	file, err := os.OpenFile(fb.path, os.O_RDWR, filePerm)
	if err != nil {
		return types.WrapError(types.KindIOError, "reopening migrated file", err)
	}
	fb.file = file

	h, err := fb.readHeader()
	if err != nil {
		_ = file.Close()
		fb.file = nil
		return err
	}
	fb.meta = Meta{Typ: h.typ, Flags: h.flags}

	return fb.acquireLock()
}
