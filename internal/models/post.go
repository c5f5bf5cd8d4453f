package models

import "time"

// Post is a published video record. Thumbnail and Video are resolver URLs of
// the two stored objects backing the post; ThumbnailID and VideoID carry the
// raw storage object IDs so cleanup does not depend on parsing URLs.
//
// The JSON tags describe the document fields as stored in the remote
// collection. ID and CreatedAt are assigned by the remote service.
type Post struct {
	ID        string    `json:"-"`
	CreatedAt time.Time `json:"-"`

	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	Thumbnail   string `json:"thumbnail"`
	Video       string `json:"video"`
	ThumbnailID string `json:"thumbnailId,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
	Creator     string `json:"creator"`
}
