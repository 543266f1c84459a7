package anvil

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a region loaded from disk.
type File struct {
	*Region
	Path    string
	mapping []byte
}

// OpenFile loads the region at path. The file is mapped copy-on-write where
// mmap is available, so slot edits and appended chunks never reach the disk;
// otherwise the file is read into memory. The caller must Close the file to
// release the mapping and must not use slices from ReadChunk afterwards.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := st.Size()
	if size64 < HeaderSize {
		return nil, ErrContainerTooSmall
	}
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("anvil: %s is too large to load", path)
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
	if err == nil {
		r, openErr := Open(data)
		if openErr != nil {
			_ = unix.Munmap(data)
			return nil, openErr
		}
		return &File{Region: r, Path: path, mapping: data}, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	r, err := Open(data)
	if err != nil {
		return nil, err
	}
	return &File{Region: r, Path: path}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Close releases the mapping, if any.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.mapping != nil {
		err = unix.Munmap(f.mapping)
		f.mapping = nil
	}
	f.Region = nil
	return err
}
