package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.SecurityLayer = (*SecurityLayer)(nil)

// SecurityLayer is a testify mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

// NewSecurityLayer creates a SecurityLayer mock whose expectations are asserted on cleanup.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(network, addr string) (net.Listener, error) {
	args := m.Called(network, addr)
	l, _ := args.Get(0).(net.Listener)
	return l, args.Error(1)
}
