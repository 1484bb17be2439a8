// Package persistence contains the default [domain.Persistence]
// implementation: whole-document load on open and whole-document crash-safe
// rewrite on flush.
package persistence

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dolmen-go/contextio"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/storage"
)

const (
	DefaultDirMode  os.FileMode = 0o755
	DefaultFileMode os.FileMode = 0o644
)

// Persistence implements domain.Persistence.
type Persistence struct {
	filename          string
	fileMode          os.FileMode
	dirMode           os.FileMode
	createIfNotExists bool
	defaultValue      map[string]any
	serializer        domain.Serializer
	deserializer      domain.Deserializer
	storage           domain.Storage
}

// NewPersistence returns a new implementation of domain.Persistence.
func NewPersistence(options ...domain.PersistenceOption) (domain.Persistence, error) {

	opts := domain.PersistenceOptions{
		Filename:          "",
		FileMode:          DefaultFileMode,
		DirMode:           DefaultDirMode,
		CreateIfNotExists: true,
		Serializer:        serializer.NewSerializer(),
		Deserializer:      deserializer.NewDeserializer(),
		Storage:           storage.NewStorage(),
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.Filename == "" {
		return nil, fmt.Errorf("%w: a backing filename is required", domain.ErrConfiguration)
	}
	if strings.HasSuffix(opts.Filename, "~") {
		return nil, fmt.Errorf("%w: the filename can't end with a ~, which is reserved for crash safe backup files", domain.ErrConfiguration)
	}

	return &Persistence{
		filename:          opts.Filename,
		fileMode:          opts.FileMode,
		dirMode:           opts.DirMode,
		createIfNotExists: opts.CreateIfNotExists,
		defaultValue:      opts.DefaultValue,
		serializer:        opts.Serializer,
		deserializer:      opts.Deserializer,
		storage:           opts.Storage,
	}, nil
}

// Load implements domain.Persistence.
func (p *Persistence) Load(ctx context.Context) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := p.storage.EnsureParentDirectoryExists(p.filename, p.dirMode); err != nil {
		return nil, err
	}

	exists, err := p.storage.Exists(p.filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		// An interrupted rewrite can leave only the temp file behind.
		if recovered, err := p.recoverBackup(); err != nil {
			return nil, err
		} else if !recovered {
			return p.create(ctx)
		}
	}

	b, err := p.storage.ReadFile(p.filename, p.fileMode)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return map[string]any{}, nil
	}

	return p.deserializer.Deserialize(ctx, b)
}

func (p *Persistence) recoverBackup() (bool, error) {
	backupExists, err := p.storage.Exists(p.filename + "~")
	if err != nil || !backupExists {
		return false, err
	}
	return true, os.Rename(p.filename+"~", p.filename)
}

func (p *Persistence) create(ctx context.Context) (map[string]any, error) {
	if !p.createIfNotExists {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, p.filename)
	}

	doc := p.defaultValue
	if doc == nil {
		doc = map[string]any{}
	}
	doc, ok := data.Clone(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: default value must be an object", domain.ErrConfiguration)
	}
	if err := p.Persist(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Persist implements domain.Persistence.
func (p *Persistence) Persist(ctx context.Context, doc map[string]any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b, err := p.serializer.Serialize(ctx, doc)
	if err != nil {
		return err
	}

	toPersist := new(bytes.Buffer)
	wr := contextio.NewWriter(ctx, toPersist)
	if _, err = wr.Write(b); err != nil {
		return err
	}

	return p.storage.CrashSafeWriteFile(p.filename, toPersist.Bytes(), p.dirMode, p.fileMode)
}

// Drop implements domain.Persistence.
func (p *Persistence) Drop(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	exists, err := p.storage.Exists(p.filename)
	if err != nil {
		return err
	}
	if exists {
		return p.storage.Remove(p.filename)
	}
	return nil
}
