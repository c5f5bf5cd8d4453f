package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aoralabs/aora/internal/common"
)

// AssetKind tells the uploader how to resolve the public URL of a stored
// object: videos get a direct view URL, images a bounded preview URL.
type AssetKind string

const (
	KindImage AssetKind = "image"
	KindVideo AssetKind = "video"
)

// Asset is a local media file selected by the user, pending upload.
// It exists only until the upload produces a resolver URL.
type Asset struct {
	URI  string
	Name string
	Size int64
	MIME string
	Kind AssetKind
}

// NewAssetFromFile builds an Asset from a file on disk. The MIME type is
// sniffed from content and must agree with the declared kind.
func NewAssetFromFile(path string, kind AssetKind) (*Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", common.ErrValidation, path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect mime type of %s: %w", path, err)
	}

	a := &Asset{
		URI:  path,
		Name: info.Name(),
		Size: info.Size(),
		MIME: mt.String(),
		Kind: kind,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the asset is complete and its MIME type matches its kind.
func (a *Asset) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: missing asset", common.ErrValidation)
	}
	if a.URI == "" {
		return fmt.Errorf("%w: asset has no local URI", common.ErrValidation)
	}
	switch a.Kind {
	case KindImage, KindVideo:
	default:
		return fmt.Errorf("%w: unknown asset kind %q", common.ErrValidation, a.Kind)
	}
	if a.MIME != "" && !strings.HasPrefix(a.MIME, string(a.Kind)+"/") {
		return fmt.Errorf("%w: %s is %s, expected %s/*", common.ErrValidation, a.Name, a.MIME, a.Kind)
	}
	return nil
}
