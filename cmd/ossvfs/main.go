package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwantia/ossvfs"
	"github.com/mwantia/ossvfs/cmd"
	"github.com/mwantia/ossvfs/cmd/builtin"
	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/log"
	"github.com/spf13/pflag"
)

func main() {
	var (
		prefix     = pflag.String("prefix", ossvfs.DefaultPrefix, "mount prefix of the virtual filesystem")
		configFile = pflag.StringP("config", "c", "", "YAML or JSON configuration file")
		logLevel   = pflag.String("log-level", "warn", "log level (debug, info, warn, error, off)")
		logFile    = pflag.String("log-file", "", "write logs into a rotated file")
		endpoint   = pflag.String("endpoint", "", "object store endpoint (AWS_S3_ENDPOINT)")
		region     = pflag.String("region", "", "object store region (AWS_REGION)")
		profile    = pflag.String("profile", "", "profile used from the credentials files (AWS_DEFAULT_PROFILE)")
		client     = pflag.String("client", "", "object store client, minio or aws (OSSVFS_CLIENT)")
		noSign     = pflag.Bool("no-sign", false, "send unsigned requests (AWS_NO_SIGN_REQUEST)")
	)

	manager := cmd.NewManager()
	if err := builtin.Register(manager); err != nil {
		fatal(err)
	}

	pflag.Usage = func() { usage(manager) }
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage(manager)
		os.Exit(2)
	}

	level, err := log.Parse(*logLevel)
	if err != nil {
		fatal(err)
	}

	layers := []config.Option{}
	if *configFile != "" {
		layers = append(layers, config.WithFile(*configFile))
	}
	layers = append(layers, config.WithEnvironment())

	cfg, err := config.New(layers...)
	if err != nil {
		fatal(err)
	}

	values := config.Values{}
	for key, value := range map[string]string{
		config.KeyEndpoint:       *endpoint,
		config.KeyRegion:         *region,
		config.KeyDefaultProfile: *profile,
		config.KeyClient:         *client,
	} {
		if value != "" {
			values[key] = value
		}
	}
	if *noSign {
		values[config.KeyNoSignRequest] = "YES"
	}

	opts := []ossvfs.FileSystemOption{
		ossvfs.WithPrefix(*prefix),
		ossvfs.WithConfig(cfg),
		ossvfs.WithOptions(values),
		ossvfs.WithLogLevel(level),
	}
	if *logFile != "" {
		opts = append(opts, ossvfs.WithLogFile(*logFile), ossvfs.WithoutTerminalLog())
	}

	fs, err := ossvfs.New(opts...)
	if err != nil {
		fatal(err)
	}
	defer fs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := manager.Execute(ctx, fs, pflag.Arg(0), pflag.Args()[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ossvfs: %v\n", err)
	}
	if code != 0 {
		stop()
		fs.Close()
		os.Exit(code)
	}
}

func usage(manager *cmd.Manager) {
	fmt.Fprintf(os.Stderr, "Usage: ossvfs [flags] <command> [args]\n\nCommands:\n")
	for _, c := range manager.Commands() {
		fmt.Fprintf(os.Stderr, "  %-6s %s\n", c.Name(), c.Description())
		fmt.Fprintf(os.Stderr, "         %s\n", c.Usage())
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	pflag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ossvfs: %v\n", err)
	os.Exit(1)
}
