package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/remote"
)

// fakeRemote is an in-memory remote.Client used across the service tests.
// Error fields inject failures for specific operations.
type fakeRemote struct {
	mu sync.Mutex

	session string
	account *remote.Account

	files   map[string]*remote.File
	docs    map[string]map[string]*remote.Document // collection -> id -> doc
	nextID  int
	nowFunc func() time.Time

	createAccountErr error
	createSessionErr error
	currentAccErr    error
	createFileErr    map[string]error // by file name
	getFileErr       map[string]error // by file id
	deleteFileErr    map[string]error // by file id
	createDocErr     error
	getDocErr        error
	listDocsErr      error
	deleteDocErr     error
	deleteSessErr    error

	createdDocs  int
	deletedFiles []string
	deletedDocs  []string
}

var _ remote.Client = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:         map[string]*remote.File{},
		docs:          map[string]map[string]*remote.Document{},
		createFileErr: map[string]error{},
		getFileErr:    map[string]error{},
		deleteFileErr: map[string]error{},
		nowFunc:       time.Now,
	}
}

func (f *fakeRemote) genID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeRemote) CreateAccount(ctx context.Context, email, password, username string) (*remote.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return nil, f.createAccountErr
	}
	f.account = &remote.Account{ID: f.genID("acc"), Email: email, Name: username}
	return f.account, nil
}

func (f *fakeRemote) CreateSession(ctx context.Context, email, password string) (*remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSessionErr != nil {
		return nil, f.createSessionErr
	}
	f.session = "secret-" + email
	return &remote.Session{ID: f.genID("sess"), Secret: f.session}, nil
}

func (f *fakeRemote) CurrentAccount(ctx context.Context) (*remote.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currentAccErr != nil {
		return nil, f.currentAccErr
	}
	if f.session == "" || f.account == nil {
		return nil, common.ErrUnauthorized
	}
	return f.account, nil
}

func (f *fakeRemote) DeleteSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessErr != nil {
		return f.deleteSessErr
	}
	f.session = ""
	return nil
}

func (f *fakeRemote) SetSession(secret string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = secret
}

func (f *fakeRemote) SessionSecret() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeRemote) InitialsAvatarURL(name string) string {
	return "https://fake/v1/avatars/initials?name=" + name
}

func (f *fakeRemote) CreateDocument(ctx context.Context, collectionID string, fields any) (*remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createDocErr != nil {
		return nil, f.createDocErr
	}
	doc, err := remote.NewDocument(f.genID("doc"), f.nowFunc(), fields)
	if err != nil {
		return nil, err
	}
	if f.docs[collectionID] == nil {
		f.docs[collectionID] = map[string]*remote.Document{}
	}
	f.docs[collectionID][doc.ID] = doc
	f.createdDocs++
	return doc, nil
}

func (f *fakeRemote) GetDocument(ctx context.Context, collectionID, documentID string) (*remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getDocErr != nil {
		return nil, f.getDocErr
	}
	doc, ok := f.docs[collectionID][documentID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, common.ErrNotFound)
	}
	return doc, nil
}

func (f *fakeRemote) ListDocuments(ctx context.Context, collectionID string, queries ...remote.Query) ([]*remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listDocsErr != nil {
		return nil, f.listDocsErr
	}

	limit := -1
	var out []*remote.Document
	for _, doc := range f.docs[collectionID] {
		match := true
		for _, q := range queries {
			switch q.Method {
			case "equal":
				if fieldValue(doc, q.Attribute) != fmt.Sprint(q.Values[0]) {
					match = false
				}
			case "search":
				term := strings.ToLower(fmt.Sprint(q.Values[0]))
				if !strings.Contains(strings.ToLower(fieldValue(doc, q.Attribute)), term) {
					match = false
				}
			case "limit":
				limit, _ = q.Values[0].(int)
			}
		}
		if match {
			out = append(out, doc)
		}
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func fieldValue(doc *remote.Document, attribute string) string {
	var fields map[string]any
	if err := doc.Decode(&fields); err != nil {
		return ""
	}
	return fmt.Sprint(fields[attribute])
}

func (f *fakeRemote) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteDocErr != nil {
		return f.deleteDocErr
	}
	if _, ok := f.docs[collectionID][documentID]; !ok {
		return fmt.Errorf("document %s: %w", documentID, common.ErrNotFound)
	}
	delete(f.docs[collectionID], documentID)
	f.deletedDocs = append(f.deletedDocs, documentID)
	return nil
}

func (f *fakeRemote) CreateFile(ctx context.Context, name string, size int64, mime string, r io.Reader) (*remote.File, error) {
	// drain the reader outside the lock so progress callbacks fire
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createFileErr[name]; err != nil {
		return nil, err
	}
	file := &remote.File{ID: f.genID("file"), Name: name, Size: n, MIME: mime}
	f.files[file.ID] = file
	return file, nil
}

func (f *fakeRemote) GetFile(ctx context.Context, fileID string) (*remote.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getFileErr[fileID]; err != nil {
		return nil, err
	}
	file, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
	}
	return file, nil
}

func (f *fakeRemote) DeleteFile(ctx context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteFileErr[fileID]; err != nil {
		return err
	}
	if _, ok := f.files[fileID]; !ok {
		return fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
	}
	delete(f.files, fileID)
	f.deletedFiles = append(f.deletedFiles, fileID)
	return nil
}

func (f *fakeRemote) FileViewURL(fileID string) string {
	return "https://fake/v1/storage/buckets/bucket/files/" + fileID + "/view?project=proj"
}

func (f *fakeRemote) FilePreviewURL(fileID string, width, height int, gravity string, quality int) string {
	return fmt.Sprintf("https://fake/v1/storage/buckets/bucket/files/%s/preview?width=%d&height=%d&gravity=%s&quality=%d",
		fileID, width, height, gravity, quality)
}
