package v1_test

import (
	"context"
	"os"
	"testing"

	"github.com/leafshare/leafshare/app/core"
	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/pkg/plugins"
	_ "github.com/leafshare/leafshare/pkg/plugins/selfhost"
	"github.com/leafshare/leafshare/pkg/security"
	"github.com/leafshare/leafshare/pkg/testutils"
	"github.com/leafshare/leafshare/pkg/types"
)

var testCore *core.Core

// NewCore 需要 LEAFSHARE_POSTGRESQL_DSN，未配置时跳过
func NewCore(t *testing.T) *core.Core {
	if err := testutils.LoadEnv(); err != nil {
		t.Fatal(err)
	}
	if os.Getenv("LEAFSHARE_POSTGRESQL_DSN") == "" {
		t.Skip("LEAFSHARE_POSTGRESQL_DSN not set")
	}
	if testCore == nil {
		testCore = core.MustSetupCore(core.LoadBaseConfigFromENV())
		plugins.Setup(testCore.InstallPlugins, "selfhost")
	}
	return testCore
}

func userCtx(userID, role string) context.Context {
	return context.WithValue(context.Background(), v1.TOKEN_CONTEXT_KEY,
		security.NewTokenClaims(types.DEFAULT_APPID, types.DEFAULT_APPID, userID, role, 0))
}
