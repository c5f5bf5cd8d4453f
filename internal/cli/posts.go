package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/models"
	"github.com/aoralabs/aora/internal/services"
)

// CreatePost walks the user through publishing a new video post: title,
// AI prompt, thumbnail image and video file. Both assets are uploaded
// with a combined progress bar before the post record is written.
func (a *App) CreatePost(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return common.ErrUnauthorized
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	prompt, err := getSimpleText(a.reader, "Enter the AI prompt of your video", a.out)
	if err != nil {
		return err
	}
	thumbPath, err := getSimpleText(a.reader, "Enter thumbnail image path", a.out)
	if err != nil {
		return err
	}
	videoPath, err := getSimpleText(a.reader, "Enter video file path", a.out)
	if err != nil {
		return err
	}
	if title == "" || prompt == "" || thumbPath == "" || videoPath == "" {
		fmt.Fprintln(a.out, "Please provide all fields")
		return common.ErrValidation
	}

	thumbnail, err := models.NewAssetFromFile(thumbPath, models.KindImage)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot use thumbnail:", err)
		return err
	}
	video, err := models.NewAssetFromFile(videoPath, models.KindVideo)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot use video:", err)
		return err
	}

	form := services.CreateForm{
		Title:     title,
		Prompt:    prompt,
		Thumbnail: thumbnail,
		Video:     video,
		CreatorID: a.user.ID,
	}

	fmt.Fprintln(a.out, "Uploading...")
	post, err := a.posts.Create(ctx, form, func(p int) { renderBar(a.out, p) })
	if err != nil {
		fmt.Fprintln(a.out, "Upload failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Published %q (id %s)\n", post.Title, post.ID)
	return nil
}

func (a *App) DeletePost(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return common.ErrUnauthorized
	}

	if err := a.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "No such post:", id)
		} else {
			fmt.Fprintln(a.out, "Delete failed:", err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Post deleted")
	return nil
}

func (a *App) Feed(ctx context.Context) error {
	posts, err := a.posts.All(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load feed:", err)
		return err
	}
	a.printPosts(posts)
	return nil
}

func (a *App) Latest(ctx context.Context) error {
	posts, err := a.posts.Latest(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load latest posts:", err)
		return err
	}
	a.printPosts(posts)
	return nil
}

func (a *App) SearchPosts(ctx context.Context, term string) error {
	posts, err := a.posts.Search(ctx, term)
	if err != nil {
		fmt.Fprintln(a.out, "Search failed:", err)
		return err
	}
	a.printPosts(posts)
	return nil
}

func (a *App) MyPosts(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return common.ErrUnauthorized
	}

	posts, err := a.posts.ByCreator(ctx, a.user.ID)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load your posts:", err)
		return err
	}
	a.printPosts(posts)
	return nil
}

func (a *App) printPosts(posts []*models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts found")
		return
	}
	for _, p := range posts {
		fmt.Fprintf(a.out, "%s  %s\n", p.ID, p.Title)
		fmt.Fprintf(a.out, "    video: %s\n", p.Video)
	}
	fmt.Fprintf(a.out, "%d post(s)\n", len(posts))
}

const barWidth = 30

// renderBar draws an in-place progress bar, e.g. [=========>      ]  62%.
// A newline is emitted once the bar reaches 100%.
func renderBar(w io.Writer, pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * barWidth / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	fmt.Fprintf(w, "\r[%s] %3d%%", bar, pct)
	if pct == 100 {
		fmt.Fprintln(w)
	}
}
