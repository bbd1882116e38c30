package ports

import (
	"context"
	"io"
)

// FileStorage is the permanent area uploaded files end up in.
type FileStorage interface {
	// Put stores r under name, replacing any previous content, and returns the stored key.
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// TempFileStore holds uploads between preview and commit.
type TempFileStore interface {
	// Stage writes r under its original name; an existing staged file is overwritten.
	Stage(ctx context.Context, originalName string, r io.Reader) (string, error)
	// Promote moves a staged file into permanent storage under the same base name.
	// It fails with domain.ErrStagedFileMissing when the staged file is gone.
	Promote(ctx context.Context, stagedPath string) (string, error)
	// Discard removes a staged file. Missing files are not an error.
	Discard(ctx context.Context, stagedPath string) error
}

// PasswordHasher is the one-way hash used for stored passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
