package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cloudfoundry-attic/jibber_jabber"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"github.com/xxxserxxx/lingo/v2"
	"github.com/xxxserxxx/opflag"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/assets"
	"github.com/xxxserxxx/speedo/devices"
	"github.com/xxxserxxx/speedo/layout"
	"github.com/xxxserxxx/speedo/logging"
	"github.com/xxxserxxx/speedo/panel"
	"github.com/xxxserxxx/speedo/tui"
)

var (
	// Version of the program; set during build from git tags
	Version = "0.0.0"
	// BuildDate when the program was compiled; set during build
	BuildDate    = "Hadean"
	conf         speedo.Config
	stderrLogger = log.New(os.Stderr, "", 0)
	tr           lingo.Translations
)

func parseArgs() error {
	help := opflag.BoolP("help", "h", false, tr.Value("args.help"))
	version := opflag.BoolP("version", "v", false, tr.Value("args.version"))
	versioN := opflag.BoolP("", "V", false, tr.Value("args.version"))
	opflag.DurationVarP(&conf.UpdateInterval, "rate", "r", conf.UpdateInterval, tr.Value("args.rate"))
	opflag.StringVarP(&conf.Layout, "layout", "l", conf.Layout, tr.Value("args.layout"))
	maximum := opflag.StringP("maximum", "m", "", tr.Value("args.maximum"))
	opflag.IntVarP(&conf.Width, "width", "W", conf.Width, tr.Value("args.width"))
	opflag.IntVarP(&conf.Height, "height", "H", conf.Height, tr.Value("args.height"))
	opflag.StringVarP(&conf.DialImage, "dial", "", conf.DialImage, tr.Value("args.dial"))
	opflag.StringVarP(&conf.DigitsImage, "digits", "", conf.DigitsImage, tr.Value("args.digits"))
	opflag.StringVarP(&conf.TenthsImage, "tenths", "", conf.TenthsImage, tr.Value("args.tenths"))
	opflag.BoolVarP(&conf.Smoothing, "smoothing", "s", conf.Smoothing, tr.Value("args.smoothing"))
	ifaces := opflag.String("interface", "", tr.Value("args.net"))
	opflag.StringVarP(&conf.ExportPort, "export", "x", conf.ExportPort, tr.Value("args.export"))
	opflag.StringVarP(&conf.Telemetry, "telemetry", "t", conf.Telemetry, tr.Value("args.telemetry"))
	opflag.StringP("", "C", "", tr.Value("args.conffile"))
	remoteName := opflag.String("remote-name", "", tr.Value("args.remotename"))
	remoteURL := opflag.String("remote-url", "", tr.Value("args.remoteurl"))
	remoteRefresh := opflag.Duration("remote-refresh", 0, tr.Value("args.remoterefresh"))
	opflag.BoolVarP(&conf.NoLocal, "no-local", "", conf.NoLocal, tr.Value("args.nolocal"))
	opflag.BoolVarP(&conf.Headless, "headless", "", conf.Headless, tr.Value("args.headless"))
	opflag.IntVarP(&conf.Frames, "frames", "n", conf.Frames, tr.Value("args.frames"))
	opflag.StringVarP(&conf.OutputDir, "output", "o", conf.OutputDir, tr.Value("args.output"))
	list := opflag.String("list", "", tr.Value("args.list"))
	wc := opflag.Bool("write-config", false, tr.Value("args.write"))
	devs := opflag.String("devices", "", tr.Value("args.devices"))
	opflag.SortFlags = false
	opflag.Usage = func() {
		fmt.Fprint(os.Stderr, tr.Value("usage", os.Args[0]))
		opflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "Project home: https://github.com/xxxserxxx/speedo\n")
	}
	opflag.Parse()
	if *version || *versioN {
		fmt.Printf("speedo %s (%s)\n", Version, BuildDate)
		os.Exit(0)
	}
	if *help {
		opflag.Usage()
		os.Exit(0)
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if *maximum != "" {
		v, err := strconv.ParseFloat(*maximum, 64)
		if err != nil || !(v > 0) {
			return errors.New(tr.Value("config.err.maximum", *maximum))
		}
		conf.Maximum = v
	}
	if *devs != "" {
		conf.Devices = strings.Split(*devs, ",")
	}
	if *ifaces != "" {
		conf.NetInterface = strings.Split(*ifaces, ",")
	}
	if *list != "" {
		switch *list {
		case "layouts":
			fmt.Println(tr.Value("help.layouts"))
			for _, l := range layout.Builtin() {
				fmt.Printf("\t%s\n", l)
			}
		case "paths":
			fmt.Println(tr.Value("help.paths"))
			paths := make([]string, 0)
			for _, d := range conf.ConfigDir.QueryFolders(configdir.All) {
				paths = append(paths, d.Path)
			}
			fmt.Println(strings.Join(paths, "\n"))
			fmt.Println()
			fmt.Println(tr.Value("help.log", filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)))
		case "devices":
			listDevices()
		case "readings":
			fmt.Println(tr.Value("help.readings"))
			for _, k := range devices.TelemetryKeys {
				fmt.Printf("\t%s\n", k)
			}
		case "keys":
			fmt.Println(tr.Value("help.help"))
		case "langs":
			err := fs.WalkDir(speedo.Dicts, ".", func(pth string, info fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() { // We skip these
					return nil
				}
				fileName := info.Name()
				if strings.HasSuffix(fileName, ".toml") {
					fmt.Println(strings.TrimSuffix(fileName, ".toml"))
				}
				return nil
			})
			if err != nil {
				return err
			}
		default:
			fmt.Print(tr.Value("error.unknownopt", *list))
			os.Exit(1)
		}
		os.Exit(0)
	}
	if *remoteURL != "" {
		if u, e := url.Parse(*remoteURL); e == nil {
			r := speedo.Remote{URL: *remoteURL, Name: *remoteName, Refresh: *remoteRefresh}
			if r.Name == "" {
				r.Name = u.Hostname()
			}
			if r.Refresh == 0 {
				r.Refresh = devices.DefaultRefresh
			}
			conf.Remotes[r.Name] = r
		} else {
			fmt.Println(e)
		}
	}
	if *wc {
		path, err := conf.Write()
		if err != nil {
			fmt.Println(tr.Value("error.writefail", err.Error()))
			os.Exit(1)
		}
		fmt.Println(tr.Value("help.written", path))
		os.Exit(0)
	}
	return nil
}

func main() {
	var ec int
	defer func() {
		if ec > 0 {
			if ec < 2 {
				logpath := filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)
				fmt.Println(tr.Value("error.checklog", logpath))
			}
		}
		os.Exit(ec)
	}()

	ling, err := lingo.New("en_US", ".", speedo.Dicts)
	if err != nil {
		fmt.Printf("failed to load language files: %s\n", err)
		ec = 2
		return
	}
	lang, err := jibber_jabber.DetectIETF()
	if err != nil {
		lang = "en_US"
	}
	lang = strings.Replace(lang, "-", "_", -1)
	// Get the locale from the os
	tr = ling.TranslationsForLocale(lang)
	conf = speedo.NewConfig()
	conf.Tr = tr
	// Find the config file; look in (1) local, (2) user, (3) global
	// Check the last argument first
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfg := fs.String("C", "", tr.Value("configfile"))
	fs.SetOutput(bufio.NewWriter(nil))
	_ = fs.Parse(os.Args[1:])
	if *cfg != "" {
		conf.ConfigFile = *cfg
	}
	err = conf.Load()
	if err != nil {
		fmt.Println(tr.Value("error.configparse", err.Error()))
		ec = 2
		return
	}
	// Override with command line arguments
	err = parseArgs()
	if err != nil {
		fmt.Println(tr.Value("error.cliparse", err.Error()))
		ec = 2
		return
	}

	logfile, err := logging.New(&conf)
	if err != nil {
		fmt.Println(tr.Value("logsetup", err.Error()))
		ec = 2
		return
	}
	defer logfile.Close()

	ec = run()
}

func run() int {
	lstream, err := layout.Get(&conf)
	if err != nil {
		stderrLogger.Print(err)
		return 2
	}
	ly, err := layout.Parse(lstream)
	if err != nil {
		stderrLogger.Print(tr.Value("error.layout", err.Error()))
		return 2
	}
	maximum := conf.Maximum
	if maximum == 0 {
		maximum = ly.Maximum
	}
	if maximum == 0 {
		maximum = 1
	}

	sprites := assets.Default(&conf, maximum)
	p := panel.New(sprites)
	defer p.Close()
	if err := layout.Apply(ly, p); err != nil {
		stderrLogger.Print(err)
		return 2
	}
	if _, err := p.SetMaximumValue(maximum); err != nil {
		stderrLogger.Print(err)
		return 2
	}

	if conf.ExportPort != "" {
		p.EnableMetrics(conf.Metrics)
		go func() {
			http.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
				conf.Metrics.WritePrometheus(w)
			})
			if err := http.ListenAndServe(conf.ExportPort, nil); err != nil {
				stderrLogger.Print(err)
			}
		}()
	}

	// device initialization errors do not stop execution
	names := make([]string, 0)
	if !conf.NoLocal {
		names = enabled(devices.Required(ly.Sources()), conf.Devices)
	}
	devInsts, errs := devices.Startup(names, &conf)
	for _, err := range errs {
		stderrLogger.Print(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	devices.Spawn(ctx, devInsts, &conf)
	feeder := devices.NewFeeder(devInsts, ly.Bindings(), conf.Smoothing)

	if conf.Headless {
		waitForSprites(ctx, sprites, 5*time.Second)
		if err := renderFrames(&conf, p, ly, feeder, os.Stdout); err != nil {
			stderrLogger.Print(err)
			return 1
		}
		if conf.ExportPort == "" {
			return 0
		}
		// Keep serving metrics until interrupted
		fmt.Println(tr.Value("help.running"))
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		return 0
	}

	ui, err := tui.New(&conf)
	if err != nil {
		stderrLogger.Print(err)
		return 1
	}
	defer ui.ShutdownUI()
	if err := ui.LoopUI(p, ly, feeder); err != nil {
		stderrLogger.Print(err)
		return 1
	}
	return 0
}

// enabled keeps the wanted devices that the configuration allows.
func enabled(wanted, allowed []string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[strings.TrimSpace(a)] = true
	}
	rv := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if ok[w] || (w == "batt" && ok["power"]) {
			rv = append(rv, w)
		}
	}
	return rv
}

func listDevices() {
	for _, m := range devices.Domains() {
		fmt.Printf("%s:\n", m)
		for _, d := range devices.Devices(m) {
			fmt.Printf("\t%s\n", d)
		}
	}
}
