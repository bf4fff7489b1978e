package test

import (
	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/storage"
)

func SetupDBConnection(globalConfig *conf.GlobalConfiguration) (*storage.Connection, error) {
	return storage.Dial(globalConfig)
}
