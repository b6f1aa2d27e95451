package library

import (
	"io"
	"os"
)

// Entry is a single directory entry as seen by a Cursor.
type Entry struct {
	Name string
	Dir  bool
}

// Cursor is a sequential, non-reentrant directory handle. Next returns
// entries in enumeration order until ok is false; Rewind moves the cursor
// back to position zero. Every scan must leave the cursor rewound so the
// next scan starts from the beginning.
type Cursor interface {
	Next() (e Entry, ok bool, err error)
	Rewind() error
	Close() error
}

// OpenFunc opens a directory for sequential enumeration.
type OpenFunc func(path string) (Cursor, error)

// OpenDir is the OpenFunc backed by the real filesystem.
func OpenDir(path string) (Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &osCursor{f: f}, nil
}

type osCursor struct {
	f *os.File
}

func (c *osCursor) Next() (Entry, bool, error) {
	ents, err := c.f.ReadDir(1)
	if err == io.EOF {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if len(ents) == 0 {
		return Entry{}, false, nil
	}
	return Entry{Name: ents[0].Name(), Dir: ents[0].IsDir()}, true, nil
}

// Rewind seeks the directory handle back to offset zero. On Unix this also
// invalidates the cached readdir state, so the next ReadDir starts over.
func (c *osCursor) Rewind() error {
	_, err := c.f.Seek(0, io.SeekStart)
	return err
}

func (c *osCursor) Close() error {
	return c.f.Close()
}
