// Package services contains the application services of the Aora client:
// authentication and the post workflows (asset upload, post creation with
// aggregated progress, post deletion with storage cleanup, feed queries).
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/logging"
	"github.com/aoralabs/aora/internal/models"
	"github.com/aoralabs/aora/internal/remote"
)

const latestLimit = 7

// CreateForm carries the user input for a new post. The CLI validates that
// all fields are present before calling Create; the service still rejects
// incomplete forms.
type CreateForm struct {
	Title     string
	Prompt    string
	Thumbnail *models.Asset
	Video     *models.Asset
	CreatorID string
}

func (f CreateForm) validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	case strings.TrimSpace(f.Prompt) == "":
		return fmt.Errorf("%w: prompt is required", common.ErrValidation)
	case f.Thumbnail == nil:
		return fmt.Errorf("%w: thumbnail is required", common.ErrValidation)
	case f.Video == nil:
		return fmt.Errorf("%w: video is required", common.ErrValidation)
	case f.CreatorID == "":
		return fmt.Errorf("%w: creator is required", common.ErrValidation)
	}
	return nil
}

// PostService sequences the remote operations behind the post screens.
type PostService interface {
	// Create uploads the thumbnail and video concurrently, reporting one
	// aggregated progress percentage, and writes the post record once both
	// uploads succeeded. If either upload fails no record is written; an
	// object uploaded by the surviving branch is left in storage.
	Create(ctx context.Context, form CreateForm, onProgress ProgressFunc) (*models.Post, error)

	// Delete removes the post record and its backing stored objects.
	// Objects already absent are skipped with a warning.
	Delete(ctx context.Context, postID string) error

	All(ctx context.Context) ([]*models.Post, error)
	Latest(ctx context.Context) ([]*models.Post, error)
	Search(ctx context.Context, term string) ([]*models.Post, error)
	ByCreator(ctx context.Context, creatorID string) ([]*models.Post, error)
}

type postService struct {
	client     remote.Client
	uploader   Uploader
	collection string
	log        logging.Logger
}

func NewPostService(client remote.Client, uploader Uploader, videoCollectionID string, log logging.Logger) PostService {
	return &postService{
		client:     client,
		uploader:   uploader,
		collection: videoCollectionID,
		log:        log,
	}
}

func (s *postService) Create(ctx context.Context, form CreateForm, onProgress ProgressFunc) (*models.Post, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	agg := newProgressAggregator(onProgress)

	var thumb, video *UploadResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.uploader.Upload(gctx, form.Thumbnail, agg.branch(0))
		if err != nil {
			return fmt.Errorf("thumbnail: %w", err)
		}
		thumb = res
		return nil
	})
	g.Go(func() error {
		res, err := s.uploader.Upload(gctx, form.Video, agg.branch(1))
		if err != nil {
			return fmt.Errorf("video: %w", err)
		}
		video = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPostCreation, err)
	}

	post := &models.Post{
		Title:       form.Title,
		Prompt:      form.Prompt,
		Thumbnail:   thumb.URL,
		Video:       video.URL,
		ThumbnailID: thumb.FileID,
		VideoID:     video.FileID,
		Creator:     form.CreatorID,
	}

	doc, err := s.client.CreateDocument(ctx, s.collection, post)
	if err != nil {
		return nil, fmt.Errorf("%w: create record: %w", common.ErrPostCreation, err)
	}
	post.ID = doc.ID
	post.CreatedAt = doc.CreatedAt

	s.log.Info(ctx, "post created", "post_id", post.ID, "creator", post.Creator)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, postID string) error {
	doc, err := s.client.GetDocument(ctx, s.collection, postID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
		}
		return fmt.Errorf("%w: fetch post %s: %w", common.ErrDeletion, postID, err)
	}

	var post models.Post
	if err := doc.Decode(&post); err != nil {
		return fmt.Errorf("%w: decode post %s: %w", common.ErrDeletion, postID, err)
	}

	// Prefer the stored object IDs written at creation time; older records
	// only carry resolver URLs, where the ID is the second-to-last segment.
	files := []struct {
		kind string
		id   string
		url  string
	}{
		{"thumbnail", post.ThumbnailID, post.Thumbnail},
		{"video", post.VideoID, post.Video},
	}

	var cleanupErrs []error
	for _, f := range files {
		id := f.id
		if id == "" {
			id = fileIDFromURL(f.url)
		}
		if id == "" {
			s.log.Warn(ctx, "cannot resolve stored object id", "post_id", postID, "kind", f.kind, "url", f.url)
			continue
		}
		if err := s.removeFile(ctx, id, f.kind); err != nil {
			cleanupErrs = append(cleanupErrs, err)
		}
	}

	// a hard failure cleaning up an asset aborts before the record delete
	if len(cleanupErrs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrDeletion, errors.Join(cleanupErrs...))
	}

	if err := s.client.DeleteDocument(ctx, s.collection, postID); err != nil {
		return fmt.Errorf("%w: delete record %s: %w", common.ErrDeletion, postID, err)
	}

	s.log.Info(ctx, "post deleted", "post_id", postID)
	return nil
}

// removeFile deletes one stored object if it still exists. Absence is not an
// error: deletion is idempotent with respect to missing assets.
func (s *postService) removeFile(ctx context.Context, fileID, kind string) error {
	if _, err := s.client.GetFile(ctx, fileID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "stored object already absent", "file_id", fileID, "kind", kind)
			return nil
		}
		return fmt.Errorf("check %s %s: %w", kind, fileID, err)
	}

	if err := s.client.DeleteFile(ctx, fileID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "stored object vanished before delete", "file_id", fileID, "kind", kind)
			return nil
		}
		return fmt.Errorf("delete %s %s: %w", kind, fileID, err)
	}
	return nil
}

func (s *postService) All(ctx context.Context) ([]*models.Post, error) {
	return s.list(ctx)
}

func (s *postService) Latest(ctx context.Context) ([]*models.Post, error) {
	return s.list(ctx, remote.OrderDesc("$createdAt"), remote.Limit(latestLimit))
}

func (s *postService) Search(ctx context.Context, term string) ([]*models.Post, error) {
	return s.list(ctx, remote.Search("title", term))
}

func (s *postService) ByCreator(ctx context.Context, creatorID string) ([]*models.Post, error) {
	return s.list(ctx, remote.Equal("creator", creatorID))
}

func (s *postService) list(ctx context.Context, queries ...remote.Query) ([]*models.Post, error) {
	docs, err := s.client.ListDocuments(ctx, s.collection, queries...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(docs))
	for _, doc := range docs {
		var p models.Post
		if err := doc.Decode(&p); err != nil {
			s.log.Warn(ctx, "skipping undecodable post", "post_id", doc.ID, "err", err)
			continue
		}
		p.ID = doc.ID
		p.CreatedAt = doc.CreatedAt
		posts = append(posts, &p)
	}
	return posts, nil
}

// fileIDFromURL extracts a stored object ID from a resolver URL, relying on
// the ID being the second-to-last path segment ("/files/{id}/view").
// Returns "" when the URL does not have that shape.
func fileIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	return segs[len(segs)-2]
}
