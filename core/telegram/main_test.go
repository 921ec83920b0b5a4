package telegram

import (
	"os"
	"testing"

	"github.com/m3rciful/profilebot/core/logger"
)

func TestMain(m *testing.M) {
	// registry wiring logs through the tg.wire component
	_ = logger.Init(logger.Settings{Level: "error", Format: "kv", Profile: "debug"})
	os.Exit(m.Run())
}
