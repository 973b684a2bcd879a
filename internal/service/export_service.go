package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/export"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
	"github.com/andresuchdata/konveksi/backend-go/internal/storage"
)

// ErrStorageDisabled is returned by uploads when no object storage is configured
var ErrStorageDisabled = errors.New("object storage is not configured")

// ExportService renders the stock workbook and optionally ships it to object storage
type ExportService struct {
	store   repository.Store
	ids     *idgen.Generator
	storage storage.ObjectStorage
	prefix  string
}

// NewExportService accepts a nil storage; uploads then fail with ErrStorageDisabled
func NewExportService(store repository.Store, ids *idgen.Generator, objects storage.ObjectStorage, prefix string) *ExportService {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ExportService{store: store, ids: ids, storage: objects, prefix: prefix}
}

// Snapshot reads everything the workbook shows in one consistent view
func (s *ExportService) Snapshot(ctx context.Context) (export.Snapshot, error) {
	snap := export.Snapshot{GeneratedAt: s.ids.Now()}
	err := s.store.View(ctx, func(tx repository.Tx) error {
		snap.Materials = tx.Materials()
		snap.FinishedGoods = tx.FinishedGoods()
		snap.History = tx.History(domain.HistoryFilter{})
		snap.Reports = tx.Reports()
		return nil
	})
	return snap, err
}

// WriteWorkbook streams the workbook into w
func (s *ExportService) WriteWorkbook(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return export.Write(w, snap)
}

// FileName is the download name of a workbook generated now
func (s *ExportService) FileName() string {
	return fmt.Sprintf("stok-konveksi-%s.xlsx", s.ids.Now().Format("20060102-150405"))
}

// Upload renders the workbook and stores it under the export prefix, returning its key
func (s *ExportService) Upload(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	data, err := export.Bytes(snap)
	if err != nil {
		return "", err
	}

	key := s.prefix + s.FileName()
	if err := s.storage.UploadObject(ctx, key, data, export.ContentType); err != nil {
		log.Error().Err(err).Str("key", key).Msg("export: upload failed")
		return "", err
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("export: workbook uploaded")
	return key, nil
}

// Uploaded lists workbooks already in storage
func (s *ExportService) Uploaded(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.ListObjects(ctx, s.prefix)
}
