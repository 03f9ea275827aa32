package speedo

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	log "github.com/sirupsen/logrus"
	"github.com/xxxserxxx/lingo/v2"
)

//go:embed "dicts/*.toml"
var Dicts embed.FS

// CONFFILE is the name of the default config file
const CONFFILE = "speedo.conf"

type Config struct {
	ConfigDir      configdir.ConfigDir
	UpdateInterval time.Duration
	// Maximum is the value mapped to full needle deflection. Zero means
	// "use the layout's maximum".
	Maximum      float64
	Width        int
	Height       int
	Layout       string
	DialImage    string
	DigitsImage  string
	TenthsImage  string
	Smoothing    bool
	NetInterface []string
	MaxLogSize   int64
	ExportPort   string
	Metrics      *metrics.Set
	Headless     bool
	Frames       int
	OutputDir    string
	Telemetry    string
	Devices      []string
	Remotes      map[string]Remote
	NoLocal      bool
	ConfigFile   string
	Tr           lingo.Translations
}

type Remote struct {
	Name    string
	URL     string
	Refresh time.Duration
}

// AllDevices lists the local value sources that can feed gauges.
func AllDevices() []string {
	return []string{"batt", "cpu", "disk", "mem", "net", "nvidia", "temp"}
}

func NewConfig() Config {
	cd := configdir.New("", "speedo")
	cd.LocalPath, _ = filepath.Abs(".")
	conf := Config{
		ConfigDir:      cd,
		UpdateInterval: time.Second / 30,
		Width:          400,
		Height:         400,
		Layout:         "default",
		Smoothing:      true,
		NetInterface:   make([]string, 0),
		MaxLogSize:     5000000,
		Frames:         1,
		OutputDir:      ".",
		Devices:        AllDevices(),
		Remotes:        make(map[string]Remote),
		Metrics:        metrics.NewSet(),
	}
	folder := conf.ConfigDir.QueryFolderContainsFile(CONFFILE)
	if folder != nil {
		conf.ConfigFile = filepath.Join(folder.Path, CONFFILE)
	}
	return conf
}

func (conf *Config) Load() error {
	var in []byte
	if conf.ConfigFile == "" {
		return nil
	}
	var err error
	if _, err = os.Stat(conf.ConfigFile); os.IsNotExist(err) {
		// Check for the file in the usual suspects
		folder := conf.ConfigDir.QueryFolderContainsFile(conf.ConfigFile)
		if folder == nil {
			return nil
		}
		conf.ConfigFile = filepath.Join(folder.Path, conf.ConfigFile)
	}
	if in, err = os.ReadFile(conf.ConfigFile); err != nil {
		return errors.Wrapf(err, "reading %s", conf.ConfigFile)
	}
	return load(bytes.NewReader(in), conf)
}

func load(in io.Reader, conf *Config) error {
	r := bufio.NewScanner(in)
	var lineNo int
	for r.Scan() {
		lineNo++
		l := strings.TrimSpace(r.Text())
		if len(l) == 0 {
			continue
		}
		if l[0] == '#' {
			continue
		}
		kv := strings.SplitN(l, "=", 2)
		if len(kv) != 2 {
			return errors.New(conf.Tr.Value("config.err.configsyntax", l))
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		ln := strconv.Itoa(lineNo)
		lineErr := func(err error) error {
			return errors.New(conf.Tr.Value("config.err.line", ln, err.Error()))
		}
		switch key {
		default:
			if strings.HasPrefix(key, "remote-") {
				parts := strings.Split(key, "-")
				if len(parts) != 3 {
					return errors.New(conf.Tr.Value("config.err.configsyntax", l))
				}
				name := parts[1]
				it := conf.Remotes[name]
				it.Name = name
				switch parts[2] {
				case "url":
					it.URL = val
				case "refresh":
					var err error
					it.Refresh, err = time.ParseDuration(val)
					if err != nil {
						return lineErr(err)
					}
				default:
					return errors.New(conf.Tr.Value("config.err.configsyntax", l))
				}
				conf.Remotes[name] = it
			} else {
				log.Warn(conf.Tr.Value("config.err.unknown", key))
			}
		case updateinterval:
			d, err := time.ParseDuration(val)
			if err != nil {
				return lineErr(err)
			}
			if d <= 0 {
				return lineErr(errors.New(conf.Tr.Value("config.err.interval", val)))
			}
			conf.UpdateInterval = d
		case maximum:
			fv, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return lineErr(err)
			}
			if fv <= 0 {
				return errors.New(conf.Tr.Value("config.err.maximum", val))
			}
			conf.Maximum = fv
		case width, height:
			iv, err := strconv.Atoi(val)
			if err != nil {
				return lineErr(err)
			}
			if iv <= 0 {
				return lineErr(errors.New(conf.Tr.Value("config.err.size", key, val)))
			}
			if key == width {
				conf.Width = iv
			} else {
				conf.Height = iv
			}
		case layout:
			conf.Layout = val
		case dialimage:
			conf.DialImage = val
		case digitsimage:
			conf.DigitsImage = val
		case tenthsimage:
			conf.TenthsImage = val
		case smoothing:
			bv, err := strconv.ParseBool(val)
			if err != nil {
				return lineErr(err)
			}
			conf.Smoothing = bv
		case netinterface:
			conf.NetInterface = strings.Split(val, ",")
		case maxlogsize:
			iv, err := strconv.Atoi(val)
			if err != nil {
				return lineErr(err)
			}
			conf.MaxLogSize = int64(iv)
		case export:
			conf.ExportPort = val
		case headless:
			bv, err := strconv.ParseBool(val)
			if err != nil {
				return lineErr(err)
			}
			conf.Headless = bv
		case frames:
			iv, err := strconv.Atoi(val)
			if err != nil {
				return lineErr(err)
			}
			if iv < 0 {
				return lineErr(errors.New(conf.Tr.Value("config.err.frames", val)))
			}
			conf.Frames = iv
		case output:
			conf.OutputDir = val
		case telemetry:
			conf.Telemetry = val
		case nolocal:
			bv, err := strconv.ParseBool(val)
			if err != nil {
				return lineErr(err)
			}
			conf.NoLocal = bv
		case devices:
			conf.Devices = strings.Split(val, ",")
		}
	}

	return r.Err()
}

// Validate checks the values that flags can set after the file was loaded.
func (conf *Config) Validate() error {
	if conf.UpdateInterval <= 0 {
		return errors.New(conf.Tr.Value("config.err.interval", conf.UpdateInterval.String()))
	}
	if conf.Width <= 0 {
		return errors.New(conf.Tr.Value("config.err.size", width, strconv.Itoa(conf.Width)))
	}
	if conf.Height <= 0 {
		return errors.New(conf.Tr.Value("config.err.size", height, strconv.Itoa(conf.Height)))
	}
	if conf.Frames < 0 {
		return errors.New(conf.Tr.Value("config.err.frames", strconv.Itoa(conf.Frames)))
	}
	return nil
}

// Write serializes the configuration to a file.
// The configuration written is based on the loaded configuration, plus any
// command-line changes, so it can be used to update an existing configuration
// file.  The file will be written to the specificed `-C` argument file,
// if one is set; otherwise, it'll create one in the user's config directory.
func (conf *Config) Write() (string, error) {
	var dir *configdir.Config
	var file string = CONFFILE
	if conf.ConfigFile == "" {
		ds := conf.ConfigDir.QueryFolders(configdir.Global)
		if len(ds) == 0 {
			ds = conf.ConfigDir.QueryFolders(configdir.Local)
			if len(ds) == 0 {
				return "", errors.New("error locating config folders")
			}
		}
		ds[0].CreateParentDir(CONFFILE)
		dir = ds[0]
	} else {
		dir = &configdir.Config{}
		dir.Path = filepath.Dir(conf.ConfigFile)
		file = filepath.Base(conf.ConfigFile)
	}
	marshalled := marshal(conf)
	err := dir.WriteFile(file, marshalled)
	if err != nil {
		return "", errors.Wrapf(err, "writing %s", file)
	}
	return filepath.Join(dir.Path, file), nil
}

func marshal(c *Config) []byte {
	buff := bytes.NewBuffer(nil)
	fmt.Fprintln(buff, "# How long to wait between frames, as a duration (e.g. 33ms)")
	fmt.Fprintf(buff, "%s=%s\n", updateinterval, c.UpdateInterval)
	fmt.Fprintln(buff, "# Value at full needle deflection; 0 uses the layout's maximum")
	if c.Maximum == 0 {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", maximum, strconv.FormatFloat(c.Maximum, 'g', -1, 64))
	fmt.Fprintln(buff, "# Size of the drawing surface, in pixels")
	fmt.Fprintf(buff, "%s=%d\n", width, c.Width)
	fmt.Fprintf(buff, "%s=%d\n", height, c.Height)
	fmt.Fprintln(buff, "# A layout name or file. See `--list layouts`")
	fmt.Fprintf(buff, "%s=%s\n", layout, c.Layout)
	fmt.Fprintln(buff, "# Artwork; generated images are used when unset")
	writeOptional(buff, dialimage, c.DialImage)
	writeOptional(buff, digitsimage, c.DigitsImage)
	writeOptional(buff, tenthsimage, c.TenthsImage)
	fmt.Fprintln(buff, "# Smooth device readings with a moving average")
	fmt.Fprintf(buff, "%s=%t\n", smoothing, c.Smoothing)
	fmt.Fprintln(buff, "# The network interfaces to monitor; prefix with ! to exclude")
	writeOptional(buff, netinterface, strings.Join(c.NetInterface, ","))
	fmt.Fprintln(buff, "# The maximum log file size, in bytes")
	fmt.Fprintf(buff, "%s=%d\n", maxlogsize, c.MaxLogSize)
	fmt.Fprintln(buff, "# If set, export gauge values as Prometheus metrics on the interface:port.\n# E.g., `:8080` (colon is required, interface is not)")
	writeOptional(buff, export, c.ExportPort)
	fmt.Fprintln(buff, "# Set headless to true to write frames to PNG files instead of the terminal")
	fmt.Fprintf(buff, "%s=%t\n", headless, c.Headless)
	fmt.Fprintf(buff, "%s=%d\n", frames, c.Frames)
	fmt.Fprintf(buff, "%s=%s\n", output, c.OutputDir)
	fmt.Fprintln(buff, "# UDP address to receive vehicle telemetry on, e.g. `:5000`")
	writeOptional(buff, telemetry, c.Telemetry)
	fmt.Fprintln(buff, "# Disable local sensors")
	fmt.Fprintf(buff, "%s=%t\n", nolocal, c.NoLocal)
	fmt.Fprintln(buff, "# Which local devices to start up (default is all)")
	fmt.Fprintf(buff, "%s=%s\n", devices, strings.Join(c.Devices, ","))
	for name, r := range c.Remotes {
		fmt.Fprintf(buff, "remote-%s-url=%s\n", name, r.URL)
		if r.Refresh > 0 {
			fmt.Fprintf(buff, "remote-%s-refresh=%s\n", name, r.Refresh)
		}
	}
	return buff.Bytes()
}

func writeOptional(w io.Writer, key, value string) {
	if value == "" {
		fmt.Fprint(w, "#")
	}
	fmt.Fprintf(w, "%s=%s\n", key, value)
}

const (
	updateinterval = "updateinterval"
	maximum        = "maximum"
	width          = "width"
	height         = "height"
	layout         = "layout"
	dialimage      = "dialimage"
	digitsimage    = "digitsimage"
	tenthsimage    = "tenthsimage"
	smoothing      = "smoothing"
	netinterface   = "netinterface"
	maxlogsize     = "maxlogsize"
	export         = "metricsexportport"
	headless       = "headless"
	frames         = "frames"
	output         = "output"
	telemetry      = "telemetry"
	nolocal        = "nolocal"
	devices        = "devices"
)
