package options

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
)

func TestCreateLauncher(t *testing.T) {
	l := CreateLauncher(
		WithBin("/usr/bin/chromium"),
		WithUserDataDir("/tmp/profile"),
		WithHeadless(false),
		WithIncognito(true),
		WithDisableBlinkFeatures("AutomationControlled"),
		WithUserAgent("rdriver-test"),
	)

	assert.Equal(t, "/usr/bin/chromium", l.Get(flags.Bin))
	assert.Equal(t, "/tmp/profile", l.Get(flags.UserDataDir))
	assert.False(t, l.Has(flags.Headless))
	assert.True(t, l.Has("incognito"))
	assert.Equal(t, "AutomationControlled", l.Get("disable-blink-features"))
	assert.Equal(t, "rdriver-test", l.Get("user-agent"))
}

func TestCreateLauncherSkipsEmptyValues(t *testing.T) {
	l := CreateLauncher(WithBin(""), WithUserAgent(""), WithIncognito(false), WithHeadless(true))

	assert.False(t, l.Has("user-agent"))
	assert.False(t, l.Has("incognito"))
	assert.True(t, l.Has(flags.Headless))
}
