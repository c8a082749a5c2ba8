package config_test

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultLocation", config.DefaultLocation},
		{"DefaultTimezone", config.DefaultTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Equal(t, "SOH", config.DefaultLocation)

	_, err := time.LoadLocation(config.DefaultTimezone)
	assert.NoError(t, err, "Default timezone must resolve")
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Vakitmatik/"), "UserAgent must start with AppName/")
}

// TestColumns_Layout pins the row layout the normalizer reads.
func TestColumns_Layout(t *testing.T) {
	cols := []int{config.ColImsak, config.ColGunes, config.ColOgle, config.ColIkindi, config.ColAksam, config.ColYatsi}

	assert.Len(t, cols, config.PrayerCount)
	assert.Len(t, config.PrayerLabels, config.PrayerCount)
	assert.Equal(t, config.ColHijri+1, config.ColImsak, "times start right after the hijri column")
	for i := 1; i < len(cols); i++ {
		assert.Equal(t, cols[i-1]+1, cols[i], "prayer columns must be consecutive")
	}
	for _, label := range config.PrayerLabels {
		assert.NotEmpty(t, label)
	}
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.ServerReadTimeout, 0*time.Second)
	assert.GreaterOrEqual(t, config.ServerWriteTimeout, config.ServerReadTimeout)
	assert.Greater(t, config.ServerIdleTimeout, 0*time.Second)

	assert.Greater(t, config.EventDuration, 0*time.Second, "calendar events need a positive duration")
	assert.Equal(t, 1, config.ChannelBufferSize, "refresh signals coalesce in a single slot")
}
