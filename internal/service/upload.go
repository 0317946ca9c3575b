package service

import (
	"bitwise74/media-api/internal/activity"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/policy"
	"bytes"
	"context"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// How much of the body is read to guess a content type when the client
// didn't send one
const sniffLen = 3072

type ObjectStore interface {
	Put(ctx context.Context, bucket model.Bucket, key string, body io.Reader, size int64, contentType string) error
}

type MediaTable interface {
	Insert(ctx context.Context, m *model.MediaFile) (string, error)
}

// Upload is a single upload action as submitted by the form. File and Body
// are both nil when no file was picked.
type Upload struct {
	UserID     string
	Bucket     model.Bucket
	Visibility model.Visibility
	Category   model.Category
	File       *policy.File
	Body       io.Reader
}

type Uploader struct {
	Store   ObjectStore
	Table   MediaTable
	Variant *policy.Variant
	Log     *activity.Log

	clock func() time.Time
}

func NewUploader(store ObjectStore, table MediaTable, variant *policy.Variant, log *activity.Log) *Uploader {
	return &Uploader{
		Store:   store,
		Table:   table,
		Variant: variant,
		Log:     log,
		clock:   time.Now,
	}
}

// Do stores the file and then writes its media_files row. A failed store
// stops before the insert. A failed insert leaves the stored object behind.
// Every outcome is also written to the user's activity log.
func (u *Uploader) Do(ctx context.Context, up Upload) (*model.MediaFile, error) {
	rec, err := u.Variant.Map(policy.Input{
		UserID:     up.UserID,
		Bucket:     up.Bucket,
		Visibility: up.Visibility,
		Category:   up.Category,
		File:       up.File,
	}, u.clock())
	if err != nil {
		u.logLine(up.UserID, "Upload rejected: "+err.Error())
		return nil, err
	}

	body := up.Body
	if body == nil {
		body = bytes.NewReader(nil)
	}

	contentType := up.File.MimeType
	if contentType == "" {
		contentType, body, err = sniff(body)
		if err != nil {
			u.logLine(up.UserID, "Upload failed: "+err.Error())
			return nil, &StorageError{Message: err.Error(), Err: err}
		}
	}

	err = u.Store.Put(ctx, rec.StorageBucket, rec.StoragePath, body, rec.SizeBytes, contentType)
	if err != nil {
		zap.L().Warn("Object store rejected upload",
			zap.String("userID", up.UserID),
			zap.String("bucket", string(rec.StorageBucket)),
			zap.String("path", rec.StoragePath),
			zap.Error(err),
		)

		e := &StorageError{Message: err.Error(), Err: err}
		u.logLine(up.UserID, e.Error())
		return nil, e
	}

	u.logLine(up.UserID, "Upload OK: "+rec.StoragePath)

	id, err := u.Table.Insert(ctx, rec)
	if err != nil {
		// TODO: remove the stored object once orphan cleanup is decided on
		zap.L().Error("Stored object has no media_files row",
			zap.String("userID", up.UserID),
			zap.String("bucket", string(rec.StorageBucket)),
			zap.String("path", rec.StoragePath),
			zap.Error(err),
		)

		e := &InsertError{Message: err.Error(), Err: err}
		u.logLine(up.UserID, e.Error())
		return nil, e
	}
	rec.ID = id

	u.logLine(up.UserID, "media_files id: "+id)
	return rec, nil
}

func (u *Uploader) logLine(userID, line string) {
	if u.Log != nil {
		u.Log.Add(userID, line)
	}
}

// sniff detects the content type from the start of body. Seekable bodies are
// rewound, anything else gets the consumed bytes stitched back on.
func sniff(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)

	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()

	if s, ok := body.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return "", nil, err
		}

		return contentType, body, nil
	}

	return contentType, io.MultiReader(bytes.NewReader(head), body), nil
}
