package router

import (
	"os"
	"testing"

	"github.com/m3rciful/profilebot/core/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Settings{Level: "error", Format: "kv", Profile: "debug"})
	os.Exit(m.Run())
}
