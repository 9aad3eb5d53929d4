package main

import (
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func withStubbedBoot(t *testing.T, db func(string) (*gorm.DB, error), redisErr error) {
	t.Helper()
	origDotenv, origRedis, origOpen, origRun := loadDotenv, initRedis, openDB, runServer
	t.Cleanup(func() {
		loadDotenv, initRedis, openDB, runServer = origDotenv, origRedis, origOpen, origRun
	})

	loadDotenv = func(...string) error { return errors.New("no .env in tests") }
	initRedis = func(url, password string) error { return redisErr }
	openDB = db
	runServer = func(r *gin.Engine, port string) error { return nil }
}

func sqliteOpen(string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open("file:boot_test?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
}

func TestRunMainProcess_Boots(t *testing.T) {
	withStubbedBoot(t, sqliteOpen, nil)
	require.NoError(t, runMainProcess())
	// give the cleanup job goroutine a beat to start and be cancelled
	time.Sleep(10 * time.Millisecond)
}

func TestRunMainProcess_RedisFailure(t *testing.T) {
	withStubbedBoot(t, sqliteOpen, errors.New("redis down"))
	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis")
}

func TestRunMainProcess_DBFailure(t *testing.T) {
	withStubbedBoot(t, func(string) (*gorm.DB, error) { return nil, errors.New("dial tcp refused") }, nil)
	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "database")
}
