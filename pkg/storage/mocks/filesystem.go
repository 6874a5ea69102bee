// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// MockFilesystem is a mock implementation of the storage.Filesystem interface
type MockFilesystem struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (m *MockFilesystem) Name() string {
	ret := m.Called()
	return ret.Get(0).(string)
}

// Type provides a mock function with given fields:
func (m *MockFilesystem) Type() string {
	ret := m.Called()
	return ret.Get(0).(string)
}

// Write provides a mock function with given fields: ctx, path, data
func (m *MockFilesystem) Write(ctx context.Context, path string, data []byte) error {
	ret := m.Called(ctx, path, data)
	return ret.Error(0)
}

// Read provides a mock function with given fields: ctx, path
func (m *MockFilesystem) Read(ctx context.Context, path string) ([]byte, error) {
	ret := m.Called(ctx, path)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// Open provides a mock function with given fields: ctx, path
func (m *MockFilesystem) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	ret := m.Called(ctx, path)

	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, path
func (m *MockFilesystem) Delete(ctx context.Context, path string) error {
	ret := m.Called(ctx, path)
	return ret.Error(0)
}

// List provides a mock function with given fields: ctx, prefix, recursive
func (m *MockFilesystem) List(ctx context.Context, prefix string, recursive bool) ([]storage.FileInfo, error) {
	ret := m.Called(ctx, prefix, recursive)

	var r0 []storage.FileInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]storage.FileInfo)
	}

	return r0, ret.Error(1)
}

// ListDir provides a mock function with given fields: ctx, path
func (m *MockFilesystem) ListDir(ctx context.Context, path string) ([]string, error) {
	ret := m.Called(ctx, path)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	return r0, ret.Error(1)
}

// Stat provides a mock function with given fields: ctx, path
func (m *MockFilesystem) Stat(ctx context.Context, path string) (*storage.FileInfo, error) {
	ret := m.Called(ctx, path)

	var r0 *storage.FileInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*storage.FileInfo)
	}

	return r0, ret.Error(1)
}

// Exists provides a mock function with given fields: ctx, path
func (m *MockFilesystem) Exists(ctx context.Context, path string) (bool, error) {
	ret := m.Called(ctx, path)
	return ret.Get(0).(bool), ret.Error(1)
}

// MkdirAll provides a mock function with given fields: ctx, path
func (m *MockFilesystem) MkdirAll(ctx context.Context, path string) error {
	ret := m.Called(ctx, path)
	return ret.Error(0)
}

// Close provides a mock function with given fields:
func (m *MockFilesystem) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// NewMockFilesystem creates a new instance of MockFilesystem
func NewMockFilesystem(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFilesystem {
	m := &MockFilesystem{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
