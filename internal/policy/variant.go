package policy

import (
	"bitwise74/media-api/internal/model"
	"fmt"
	"slices"
	"time"
)

// Variant is the set of choices a deployment offers. The adult variant is
// the 18+ site, the youth variant never exposes the adult bucket or category.
type Variant struct {
	Name         string             `json:"name"`
	Buckets      []model.Bucket     `json:"buckets"`
	Visibilities []model.Visibility `json:"visibilities"`
	Categories   []model.Category   `json:"categories"`
}

var (
	Adult = &Variant{
		Name:         "adult",
		Buckets:      []model.Bucket{model.BucketProfilePublic, model.BucketAdultPrivate, model.BucketChatTemp},
		Visibilities: []model.Visibility{model.VisibilityPrivate, model.VisibilityMembers, model.VisibilityPublic},
		Categories:   []model.Category{model.CategoryProfile, model.CategoryPost, model.CategoryChat, model.CategoryAdult},
	}

	Youth = &Variant{
		Name:         "youth",
		Buckets:      []model.Bucket{model.BucketProfilePublic, model.BucketChatTemp},
		Visibilities: []model.Visibility{model.VisibilityPrivate, model.VisibilityPublic},
		Categories:   []model.Category{model.CategoryProfile, model.CategoryPost, model.CategoryChat},
	}
)

// Form defaults, same for both variants
const (
	DefaultBucket     = model.BucketProfilePublic
	DefaultVisibility = model.VisibilityPrivate
	DefaultCategory   = model.CategoryPost
)

func VariantByName(name string) (*Variant, error) {
	switch name {
	case Adult.Name:
		return Adult, nil
	case Youth.Name:
		return Youth, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Map fills in empty selections with the form defaults, rejects anything the
// variant doesn't offer and then maps the input like the package level Map.
func (v *Variant) Map(in Input, now time.Time) (*model.MediaFile, error) {
	if in.UserID == "" {
		return nil, ErrUnauthenticated
	}

	if in.File == nil {
		return nil, ErrNoFile
	}

	if in.Bucket == "" {
		in.Bucket = DefaultBucket
	}
	if in.Visibility == "" {
		in.Visibility = DefaultVisibility
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}

	if !slices.Contains(v.Buckets, in.Bucket) {
		return nil, fmt.Errorf("%w: bucket %q", ErrInvalidSelection, in.Bucket)
	}

	if !slices.Contains(v.Visibilities, in.Visibility) {
		return nil, fmt.Errorf("%w: visibility %q", ErrInvalidSelection, in.Visibility)
	}

	// The category picker is disabled for the adult bucket so whatever was
	// sent gets overwritten anyway
	if in.Bucket != model.BucketAdultPrivate && !slices.Contains(v.Categories, in.Category) {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidSelection, in.Category)
	}

	return Map(in, now)
}
