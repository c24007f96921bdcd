package mocks

import (
	"github.com/projtree/projtree"
	"github.com/stretchr/testify/mock"
)

// MockMappingHandler implements projtree.MappingHandler for testing across
// packages
type MockMappingHandler struct {
	mock.Mock
}

func (m *MockMappingHandler) MapFiles(req *projtree.MappingRequest) {
	m.Called(req)
}

// MockRefreshObserver implements projtree.RefreshObserver for testing across
// packages
type MockRefreshObserver struct {
	mock.Mock
}

func (m *MockRefreshObserver) NodeRefreshed(ev projtree.RefreshEvent) {
	m.Called(ev)
}
