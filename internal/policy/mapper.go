// Package policy turns an upload request into the storage key and the
// media_files row that describes it. Nothing in here talks to the network.
package policy

import (
	"bitwise74/media-api/internal/model"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Matches the same characters as \s in a browser regexp, so names sanitized
// here agree with names sanitized client side
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

// File describes the uploaded file as the client presented it
type File struct {
	Name     string
	MimeType string
	Size     int64
}

type Input struct {
	UserID     string
	Bucket     model.Bucket
	Visibility model.Visibility
	Category   model.Category
	File       *File
}

// SafeName replaces every run of whitespace in name with a single underscore
func SafeName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_")
}

// StoragePath builds the object key {userID}/{unix ms}-{safe name}
func StoragePath(userID string, now time.Time, name string) string {
	return fmt.Sprintf("%s/%d-%s", userID, now.UnixMilli(), SafeName(name))
}

// DetectKind classifies a MIME type by its prefix. image/gif is the only
// image type that gets its own kind.
func DetectKind(mime string) model.Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		if mime == "image/gif" {
			return model.KindGIF
		}
		return model.KindImage
	case strings.HasPrefix(mime, "video/"):
		return model.KindVideo
	case strings.HasPrefix(mime, "audio/"):
		return model.KindAudio
	default:
		return model.KindOther
	}
}

// Map derives the media_files row for in. The adult-private bucket always
// yields adult_only, is_sensitive and the adult category no matter what
// category was picked.
func Map(in Input, now time.Time) (*model.MediaFile, error) {
	if in.UserID == "" {
		return nil, ErrUnauthenticated
	}

	if in.File == nil {
		return nil, ErrNoFile
	}

	adultOnly := in.Bucket == model.BucketAdultPrivate

	category := in.Category
	if adultOnly {
		category = model.CategoryAdult
	}

	var mimeType *string
	if in.File.MimeType != "" {
		m := in.File.MimeType
		mimeType = &m
	}

	return &model.MediaFile{
		UserID:        in.UserID,
		StorageBucket: in.Bucket,
		StoragePath:   StoragePath(in.UserID, now, in.File.Name),
		Kind:          DetectKind(in.File.MimeType),
		MimeType:      mimeType,
		SizeBytes:     in.File.Size,
		Visibility:    in.Visibility,
		Category:      category,
		IsSensitive:   adultOnly,
		AdultOnly:     adultOnly,
		Moderation:    model.ModerationPending,
	}, nil
}
