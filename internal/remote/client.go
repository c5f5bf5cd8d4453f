// Package remote implements the client for the backend-as-a-service the app
// is built on: account and session management, document database with query
// filters, and object storage with resolver URLs. The wire protocol belongs
// to the backend; this package only gives it a typed Go surface and maps its
// failures onto the sentinel errors in internal/common.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Client is the remote service surface consumed by the application services.
// Implementations must map transport failures to common.ErrUnavailable,
// authorization failures to common.ErrUnauthorized, and missing resources
// to common.ErrNotFound so callers can rely on errors.Is.
type Client interface {
	// Accounts and sessions.
	CreateAccount(ctx context.Context, email, password, username string) (*Account, error)
	CreateSession(ctx context.Context, email, password string) (*Session, error)
	CurrentAccount(ctx context.Context) (*Account, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// SetSession installs a previously obtained session secret, e.g. when
	// resuming from the local cache. SessionSecret returns the current one.
	SetSession(secret string)
	SessionSecret() string

	// InitialsAvatarURL resolves an avatar image URL for the given name.
	InitialsAvatarURL(name string) string

	// Documents.
	CreateDocument(ctx context.Context, collectionID string, fields any) (*Document, error)
	GetDocument(ctx context.Context, collectionID, documentID string) (*Document, error)
	ListDocuments(ctx context.Context, collectionID string, queries ...Query) ([]*Document, error)
	DeleteDocument(ctx context.Context, collectionID, documentID string) error

	// Stored objects. CreateFile reads the object bytes from r; size and mime
	// describe the payload. FileViewURL and FilePreviewURL build resolver URLs
	// without a network round-trip.
	CreateFile(ctx context.Context, name string, size int64, mime string, r io.Reader) (*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DeleteFile(ctx context.Context, fileID string) error
	FileViewURL(fileID string) string
	FilePreviewURL(fileID string, width, height int, gravity string, quality int) string
}

// Account is a backend account.
type Account struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an authenticated session. Secret is the opaque token sent with
// subsequent requests; the backend only returns it at session creation.
type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

// File is a stored object's metadata.
type File struct {
	ID   string `json:"$id"`
	Name string `json:"name"`
	Size int64  `json:"sizeOriginal"`
	MIME string `json:"mimeType"`
}

// Document is a database record. ID and CreatedAt are assigned by the
// backend; the remaining fields are collection-specific and are accessed
// via Decode.
type Document struct {
	ID        string
	CreatedAt time.Time

	fields json.RawMessage
}

// NewDocument builds a Document from explicit metadata and a fields value.
// Mostly useful for fakes in tests.
func NewDocument(id string, createdAt time.Time, fields any) (*Document, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, CreatedAt: createdAt, fields: raw}, nil
}

// UnmarshalJSON keeps the raw document body so collection-specific fields
// can be decoded later, while extracting the service-assigned metadata.
func (d *Document) UnmarshalJSON(data []byte) error {
	var meta struct {
		ID        string    `json:"$id"`
		CreatedAt time.Time `json:"$createdAt"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	d.ID = meta.ID
	d.CreatedAt = meta.CreatedAt
	d.fields = append(json.RawMessage(nil), data...)
	return nil
}

// Decode unmarshals the document's collection-specific fields into v.
func (d *Document) Decode(v any) error {
	if d.fields == nil {
		return fmt.Errorf("document %s has no fields", d.ID)
	}
	return json.Unmarshal(d.fields, v)
}
