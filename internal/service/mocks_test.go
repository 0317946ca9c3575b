package service

import (
	"bitwise74/media-api/internal/model"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Put(ctx context.Context, bucket model.Bucket, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, key, body, size, contentType)
	return args.Error(0)
}

type TableMock struct {
	mock.Mock
}

func (m *TableMock) Insert(ctx context.Context, media *model.MediaFile) (string, error) {
	args := m.Called(ctx, media)
	return args.String(0), args.Error(1)
}
