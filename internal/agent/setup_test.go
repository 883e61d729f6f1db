package agent

import (
	"os"
	"testing"

	"frontline-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
