package speedo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxserxxx/lingo/v2"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	ling, err := lingo.New("en_US", ".", Dicts)
	require.NoError(t, err)
	c := NewConfig()
	c.Tr = ling.TranslationsForLocale("en_US")
	c.ConfigFile = ""
	return c
}

func TestLoad(t *testing.T) {
	c := testConfig(t)
	in := `
# comment
updateinterval=100ms
maximum=250.5
width=200
height=150
layout=telemetry
smoothing=false
netinterface=eth0,!lo
headless=true
frames=10
output=/tmp/frames
telemetry=:5000
nolocal=true
devices=cpu,mem
remote-car-url=http://car:8080/metrics
remote-car-refresh=2s
`
	require.NoError(t, load(strings.NewReader(in), &c))
	assert.Equal(t, 100*time.Millisecond, c.UpdateInterval)
	assert.Equal(t, 250.5, c.Maximum)
	assert.Equal(t, 200, c.Width)
	assert.Equal(t, 150, c.Height)
	assert.Equal(t, "telemetry", c.Layout)
	assert.False(t, c.Smoothing)
	assert.Equal(t, []string{"eth0", "!lo"}, c.NetInterface)
	assert.True(t, c.Headless)
	assert.Equal(t, 10, c.Frames)
	assert.Equal(t, "/tmp/frames", c.OutputDir)
	assert.Equal(t, ":5000", c.Telemetry)
	assert.True(t, c.NoLocal)
	assert.Equal(t, []string{"cpu", "mem"}, c.Devices)
	require.Contains(t, c.Remotes, "car")
	assert.Equal(t, Remote{Name: "car", URL: "http://car:8080/metrics", Refresh: 2 * time.Second}, c.Remotes["car"])
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":        "width",
		"bad int":       "width=wide",
		"bad duration":  "updateinterval=soon",
		"zero maximum":  "maximum=0",
		"neg maximum":   "maximum=-3",
		"bad remote":    "remote-car=x",
		"bad remote op": "remote-car-port=80",
		"zero width":    "width=0",
		"neg width":     "width=-5",
		"neg height":    "height=-1",
		"zero interval": "updateinterval=0s",
		"neg interval":  "updateinterval=-1s",
		"neg frames":    "frames=-2",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			c := testConfig(t)
			assert.Error(t, load(strings.NewReader(in), &c))
		})
	}
}

func TestValidate(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, c.Validate())

	tests := map[string]func(*Config){
		"zero interval": func(c *Config) { c.UpdateInterval = 0 },
		"neg width":     func(c *Config) { c.Width = -5 },
		"zero height":   func(c *Config) { c.Height = 0 },
		"neg frames":    func(c *Config) { c.Frames = -1 },
	}
	for name, mod := range tests {
		t.Run(name, func(t *testing.T) {
			c := testConfig(t)
			mod(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestLoadUnknownKey(t *testing.T) {
	c := testConfig(t)
	assert.NoError(t, load(strings.NewReader("colorscheme=monokai"), &c))
}

func TestMarshalRoundTrip(t *testing.T) {
	c := testConfig(t)
	c.Maximum = 8000
	c.DialImage = "dial.png"
	c.ExportPort = ":8080"
	c.Remotes["car"] = Remote{Name: "car", URL: "http://car/metrics", Refresh: time.Second}

	d := testConfig(t)
	require.NoError(t, load(bytes.NewReader(marshal(&c)), &d))
	assert.Equal(t, c.Maximum, d.Maximum)
	assert.Equal(t, c.DialImage, d.DialImage)
	assert.Equal(t, "", d.DigitsImage)
	assert.Equal(t, c.ExportPort, d.ExportPort)
	assert.Equal(t, c.Devices, d.Devices)
	assert.Equal(t, c.Remotes, d.Remotes)
	assert.Equal(t, c.UpdateInterval, d.UpdateInterval)
}

func TestMarshalUnsetMaximum(t *testing.T) {
	c := testConfig(t)
	assert.Contains(t, string(marshal(&c)), "#maximum=0\n")
}

func TestWriteAndLoad(t *testing.T) {
	c := testConfig(t)
	c.ConfigFile = filepath.Join(t.TempDir(), CONFFILE)
	c.Width = 321
	path, err := c.Write()
	require.NoError(t, err)
	assert.Equal(t, c.ConfigFile, path)

	d := testConfig(t)
	d.ConfigFile = path
	require.NoError(t, d.Load())
	assert.Equal(t, 321, d.Width)
}

func TestLoadMissingFile(t *testing.T) {
	c := testConfig(t)
	c.ConfigFile = filepath.Join(t.TempDir(), "nope.conf")
	assert.NoError(t, c.Load())
	_, err := os.Stat(c.ConfigFile)
	assert.True(t, os.IsNotExist(err))
}
