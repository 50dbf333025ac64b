package adapter

import "github.com/stretchr/testify/mock"

func mockAnyOOM() any {
	return mock.AnythingOfType("*adapter.OOMError")
}
