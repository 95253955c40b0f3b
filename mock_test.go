package blockio

import (
	"github.com/hupe1980/blockio/lowlevel"
	"github.com/stretchr/testify/mock"
)

// MockPrimitive is a testify mock for lowlevel.FileSystem.
type MockPrimitive struct {
	mock.Mock
}

var _ lowlevel.FileSystem = (*MockPrimitive)(nil)

func (m *MockPrimitive) OpenFile(path string) int {
	return m.Called(path).Int(0)
}

func (m *MockPrimitive) CloseFile(id int) {
	m.Called(id)
}

func (m *MockPrimitive) SyncReadFile(id int, buf []byte, start, end int) int {
	return m.Called(id, buf, start, end).Int(0)
}

func (m *MockPrimitive) AsyncReadFile(id int, buf []byte, start, end int, callback func(int)) {
	m.Called(id, buf, start, end, callback)
}

func (m *MockPrimitive) SyncWriteFile(id int, buf []byte, start, end int) {
	m.Called(id, buf, start, end)
}

func (m *MockPrimitive) AsyncWriteFile(id int, buf []byte, start, end int, callback func()) {
	m.Called(id, buf, start, end, callback)
}

func (m *MockPrimitive) Exists(path string) bool {
	return m.Called(path).Bool(0)
}

func (m *MockPrimitive) IsRegularFile(path string) bool {
	return m.Called(path).Bool(0)
}

func (m *MockPrimitive) IsDirectory(path string) bool {
	return m.Called(path).Bool(0)
}
