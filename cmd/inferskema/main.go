package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/config"
	"github.com/reoring/inferskema/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	stream     bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "inferskema [file...]",
		Short: "Infer a JSON Schema from example JSON documents",
		Long: `inferskema reads one JSON document per file argument (or from stdin when no
file or "-" is given), folds every document into one structural description and
prints a closed-world JSON Schema: every object lists its observed properties,
the keys present in all samples are required, and unknown keys are rejected.

On malformed input nothing is written to stdout; a diagnostic goes to stderr.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runInfer,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Configuration file path")
	pf.String("log-level", "info", "Logging level (debug, info, warn, error)")
	pf.String("log-format", string(logging.FormatText), "Log format (text, json)")
	pf.String("json-driver", inferskema.DefaultJSONDriverName, "JSON tokenizer (encoding/json, go-json)")
	pf.String("duplicate-keys", "ignore", "Duplicate object key policy (ignore, warn, error)")
	pf.Int("max-depth", 0, "Maximum nesting depth per document (0 = unlimited)")
	pf.Int64("max-bytes", 0, "Maximum size per input in bytes (0 = unlimited)")
	_ = a.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyJSONDriver, pf.Lookup("json-driver"))
	_ = a.v.BindPFlag(config.KeyDuplicateKeys, pf.Lookup("duplicate-keys"))
	_ = a.v.BindPFlag(config.KeyMaxDepth, pf.Lookup("max-depth"))
	_ = a.v.BindPFlag(config.KeyMaxBytes, pf.Lookup("max-bytes"))

	f := rootCmd.Flags()
	f.StringP("output", "o", config.OutputJSON, "Output format (json, yaml)")
	f.String("dialect", "", "Value of $schema on the root schema (empty = omit)")
	f.Int("max-union", 0, "Drop the type constraint where more kinds were observed (0 = no cap)")
	f.Bool("fail-on-error", false, "Exit non-zero when no schema can be produced")
	f.BoolVar(&a.stream, "stream", false, "Each input may hold several concatenated documents (NDJSON)")
	_ = a.v.BindPFlag(config.KeyOutput, f.Lookup("output"))
	_ = a.v.BindPFlag(config.KeyDialect, f.Lookup("dialect"))
	_ = a.v.BindPFlag(config.KeyMaxUnion, f.Lookup("max-union"))
	_ = a.v.BindPFlag(config.KeyFailOnError, f.Lookup("fail-on-error"))

	rootCmd.AddCommand(a.newValidateCmd(), a.newServeCmd())
	return rootCmd
}

// setup loads the configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	driver, err := cfg.Driver()
	if err != nil {
		return err
	}
	inferskema.SetJSONDriver(driver)

	a.cfg = cfg
	a.log = log
	return nil
}
