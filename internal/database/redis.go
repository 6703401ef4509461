package database

import (
	"sync"

	"newshub/pkg/config"
	"newshub/pkg/tokenstore"
)

var (
	revokeStoreInstance *tokenstore.RevokeStore
	revokeStoreOnce     sync.Once
)

// GetRevokeStore 获取令牌吊销存储的单例实例
func GetRevokeStore() *tokenstore.RevokeStore {
	revokeStoreOnce.Do(func() {
		cfg := config.GetConfig()
		revokeStoreInstance = tokenstore.NewRevokeStore(&tokenstore.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return revokeStoreInstance
}

// CloseRevokeStore 关闭Redis连接
func CloseRevokeStore() error {
	if revokeStoreInstance != nil {
		return revokeStoreInstance.Close()
	}
	return nil
}
