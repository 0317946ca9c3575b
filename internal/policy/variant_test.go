package policy

import (
	"bitwise74/media-api/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantByName(t *testing.T) {
	v, err := VariantByName("adult")
	require.NoError(t, err)
	require.Same(t, Adult, v)

	v, err = VariantByName("youth")
	require.NoError(t, err)
	require.Same(t, Youth, v)

	_, err = VariantByName("kids")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestVariantMap_Defaults(t *testing.T) {
	rec, err := Youth.Map(Input{
		UserID: "u1",
		File:   &File{Name: "a.png", MimeType: "image/png", Size: 5},
	}, fixedNow)
	require.NoError(t, err)

	require.Equal(t, model.BucketProfilePublic, rec.StorageBucket)
	require.Equal(t, model.VisibilityPrivate, rec.Visibility)
	require.Equal(t, model.CategoryPost, rec.Category)
}

func TestVariantMap_YouthRejectsAdultChoices(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{
			name: "adult bucket",
			in:   Input{Bucket: model.BucketAdultPrivate},
		},
		{
			name: "members visibility",
			in:   Input{Visibility: model.VisibilityMembers},
		},
		{
			name: "adult category",
			in:   Input{Category: model.CategoryAdult},
		},
		{
			name: "unknown bucket",
			in:   Input{Bucket: "secret"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.UserID = "u1"
			tc.in.File = &File{Name: "a.png", MimeType: "image/png"}

			rec, err := Youth.Map(tc.in, fixedNow)
			require.ErrorIs(t, err, ErrInvalidSelection)
			require.Nil(t, rec)
		})
	}
}

func TestVariantMap_AdultBucketIgnoresCategory(t *testing.T) {
	rec, err := Adult.Map(Input{
		UserID:   "u1",
		Bucket:   model.BucketAdultPrivate,
		Category: "not-a-category",
		File:     &File{Name: "clip.mp4", MimeType: "video/mp4"},
	}, fixedNow)
	require.NoError(t, err)

	require.Equal(t, model.CategoryAdult, rec.Category)
	require.True(t, rec.AdultOnly)
	require.True(t, rec.IsSensitive)
}

func TestVariantMap_ChecksAuthAndFileFirst(t *testing.T) {
	_, err := Adult.Map(Input{Bucket: "nope", File: &File{}}, fixedNow)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = Adult.Map(Input{UserID: "u1", Bucket: "nope"}, fixedNow)
	require.ErrorIs(t, err, ErrNoFile)
}
