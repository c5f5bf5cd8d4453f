package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/logging"
	"github.com/aoralabs/aora/internal/models"
	"github.com/aoralabs/aora/internal/remote"
)

// Preview parameters for image resolver URLs.
const (
	previewMaxWidth  = 2000
	previewMaxHeight = 2000
	previewGravity   = "top"
	previewQuality   = 100
)

// UploadResult identifies a freshly stored object both by its raw storage ID
// and by the public resolver URL embedded into post records.
type UploadResult struct {
	FileID string
	URL    string
}

// Uploader transfers one local asset to the remote object store.
//
// Progress reported through onProgress is monotonically non-decreasing and
// reaches exactly 100 before Upload returns successfully. A nil onProgress
// is allowed.
type Uploader interface {
	Upload(ctx context.Context, asset *models.Asset, onProgress ProgressFunc) (*UploadResult, error)
}

type assetUploader struct {
	client remote.Client
	log    logging.Logger
}

// openFile is a test seam for opening local assets.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

func NewUploader(client remote.Client, log logging.Logger) Uploader {
	return &assetUploader{client: client, log: log}
}

// Upload stores the asset and resolves its public URL: a direct view URL for
// videos, a bounded top-anchored preview URL for images.
//
// If URL resolution fails after the object was stored, the object is not
// cleaned up; the error reports the orphaned ID so a caller can compensate.
func (u *assetUploader) Upload(ctx context.Context, asset *models.Asset, onProgress ProgressFunc) (*UploadResult, error) {
	if asset == nil {
		return nil, fmt.Errorf("%w: no asset", common.ErrUpload)
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUpload, err)
	}

	report := monotonic(onProgress)

	f, err := openFile(asset.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrUpload, asset.URI, err)
	}
	defer f.Close()

	u.log.Debug(ctx, "uploading asset", "name", asset.Name, "kind", asset.Kind, "size", asset.Size)

	body := newTransferReader(f, asset.Size, report)
	file, err := u.client.CreateFile(ctx, asset.Name, asset.Size, asset.MIME, body)
	if err != nil {
		return nil, fmt.Errorf("%w: store %s: %w", common.ErrUpload, asset.Name, err)
	}

	var fileURL string
	switch asset.Kind {
	case models.KindVideo:
		fileURL = u.client.FileViewURL(file.ID)
	case models.KindImage:
		fileURL = u.client.FilePreviewURL(file.ID, previewMaxWidth, previewMaxHeight, previewGravity, previewQuality)
	}
	if fileURL == "" {
		// The stored object stays behind; report its ID for compensating cleanup.
		return nil, fmt.Errorf("%w: no resolver URL for stored object %s", common.ErrUpload, file.ID)
	}

	report(100)
	u.log.Info(ctx, "asset uploaded", "file_id", file.ID, "kind", asset.Kind)

	return &UploadResult{FileID: file.ID, URL: fileURL}, nil
}
