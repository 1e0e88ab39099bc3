package service

import (
	"boxoffice/common/service"

	"github.com/stretchr/testify/mock"
)

// MockAppServiceCreator is a mock implementation for the service.AppServiceCreator interface
type MockAppServiceCreator struct {
	mock.Mock
}

func (m *MockAppServiceCreator) NewAppService(serviceKey string) (*service.AppService, bool) {
	args := m.Called(serviceKey)
	var res *service.AppService
	if args.Get(0) != nil {
		res = args.Get(0).(*service.AppService)
	}
	return res, args.Bool(1)
}
