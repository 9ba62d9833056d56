package port

import (
	"encoding/json"
	"fmt"
	"os"
)

// PersistenceError reports a failed Save or Load.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s port %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Save writes the port record to path as indented JSON.
func (p *Port) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &PersistenceError{Op: "save", Path: path, Err: cerr}
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p.Record()); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load reads a port previously written by Save.
func Load(path string) (*Port, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	var r Record
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	p, err := FromRecord(r)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return p, nil
}
