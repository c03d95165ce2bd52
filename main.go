// uitrans — in-place UI localization for Cursor workbench bundles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/uitrans/uitrans/backup"
	"github.com/uitrans/uitrans/config"
	"github.com/uitrans/uitrans/finder"
	"github.com/uitrans/uitrans/i18n"
	"github.com/uitrans/uitrans/langmeta"
	"github.com/uitrans/uitrans/lockfile"
	"github.com/uitrans/uitrans/pipeline"
	"github.com/uitrans/uitrans/settings"
	"github.com/uitrans/uitrans/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	bundlePath string
	storeDir   string
	backupDir  string
)

// env holds the per-invocation context resolved from flags, the optional
// .uitrans.yaml, and auto-discovery.
type env struct {
	cfg   *config.File
	cache *finder.Cache
}

func loadEnv() *env {
	cfg, err := config.Load(".")
	if err != nil {
		logWarning("%v", err)
		cfg = nil
	}
	return &env{cfg: cfg, cache: finder.LoadCache(resolveStoreDir(cfg))}
}

func resolveStoreDir(cfg *config.File) string {
	if storeDir != "" {
		return storeDir
	}
	if cfg != nil && cfg.StoreDir != "" {
		return cfg.StoreDir
	}
	return "."
}

func (e *env) storeDir() string {
	return resolveStoreDir(e.cfg)
}

func (e *env) backupDir() string {
	if backupDir != "" {
		return backupDir
	}
	if e.cfg != nil && e.cfg.BackupDir != "" {
		return e.cfg.BackupDir
	}
	return filepath.Join(e.storeDir(), "backups")
}

// resolveBundle finds the workbench bundle: the --bundle flag wins, then
// .uitrans.yaml, then the cached path from a previous run, then a fresh
// filesystem search.
func (e *env) resolveBundle() (string, error) {
	explicit := bundlePath
	if explicit == "" && e.cfg != nil {
		explicit = e.cfg.Bundle
	}
	return finder.Resolve(explicit, e.cache)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uitrans",
		Short: "Localize Cursor's UI by rewriting its workbench bundle",
		Long: `uitrans — in-place UI localization for Cursor workbench bundles.

Extracts user-facing strings from workbench.desktop.main.js, translates
them with DeepL, keeps per-language translation stores, and substitutes
the translations back into the bundle. Every destructive write is
preceded by a timestamped backup that can be restored at any time.

Commands:
  status      Show bundle location and translation store coverage
  extract     Extract candidate UI strings without modifying anything
  translate   Translate and apply a language to the bundle
  restore     Put the most recent backup of the bundle back in place
  backups     List available bundle backups
  auth        Manage the DeepL API key

Supported languages:
  ` + strings.Join(langmeta.Supported(), ", "),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags — inherited by all subcommands
	root.PersistentFlags().StringVar(&bundlePath, "bundle", "", "Path to workbench.desktop.main.js (default: auto-discover)")
	root.PersistentFlags().StringVar(&storeDir, "store-dir", "", "Directory with translation store files (default \".\")")
	root.PersistentFlags().StringVar(&backupDir, "backup-dir", "", "Directory for bundle backups (default: <store-dir>/backups)")

	root.AddCommand(
		newStatusCmd(),
		newExtractCmd(),
		newTranslateCmd(),
		newRestoreCmd(),
		newBackupsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// A .env in the working directory may carry DEEPL_API_KEY.
	_ = godotenv.Load()
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uitrans version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: bundle location + store coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bundle location and translation store coverage",
		Long: `Show the resolved bundle path and per-language translation statistics.

Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus(loadEnv())
		},
	}

	return cmd
}

func runStatus(e *env) {
	fmt.Fprintf(os.Stderr, "\n%sBundle%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	path, err := e.resolveBundle()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Not found: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Pass --bundle or set 'bundle:' in %s\n", config.FileName)
	} else {
		fmt.Fprintf(os.Stderr, "  Path:  %s\n", path)
		if info, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "  Size:  %.1f MB\n", float64(info.Size())/(1024*1024))
		}
		if install := finder.FindInstallation(); install != "" {
			fmt.Fprintf(os.Stderr, "  Root:  %s\n", install)
		}
	}

	fmt.Fprintf(os.Stderr, "\n%sTranslation Stores%s (%s)\n", colorBlue, colorReset, e.storeDir())
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%-8s %-16s %-12s %-10s %-8s\n", "Lang", "Name", "Translated", "Pending", "Percent")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 56))

	found := 0
	for _, lang := range langmeta.Supported() {
		total, translated, untranslated, err := pipeline.StoreStats(e.storeDir(), lang)
		if err != nil || total == 0 {
			continue
		}
		found++
		percent := translated * 100 / total
		meta := langmeta.Resolve(lang)
		fmt.Fprintf(os.Stderr, "%-8s %-16s %-12d %-10d %d%% %s\n",
			lang, meta.Name, translated, untranslated, percent, meta.Flag)
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "  (no translation stores yet)")
	}
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 56))

	if lf, err := lockfile.Load(e.storeDir()); err == nil {
		fmt.Fprintf(os.Stderr, "\nLast run: %s\n", lf.Summary())
	}

	mgr := backup.NewManager(e.backupDir())
	if recs, err := mgr.List(); err == nil && len(recs) > 0 {
		fmt.Fprintf(os.Stderr, "Backups: %d (latest %s)\n",
			len(recs), recs[0].Created.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(os.Stderr, "\n%sSuggested Commands%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  # Extract candidate strings without touching the bundle\n")
	fmt.Fprintf(os.Stderr, "  uitrans extract\n\n")
	fmt.Fprintf(os.Stderr, "  # Translate and apply Korean\n")
	fmt.Fprintf(os.Stderr, "  uitrans translate --lang ko\n\n")
	fmt.Fprintf(os.Stderr, "  # Undo the last applied translation\n")
	fmt.Fprintf(os.Stderr, "  uitrans restore\n\n")
}

// ---------------------------------------------------------------------------
// extract (read-only candidate extraction)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	var keepNonLatin bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract candidate UI strings without modifying anything",
		Long: `Scan the bundle for user-facing string literals and write them to
extracted_strings.txt in the store directory, one per line.

Non-Latin strings are dropped by default so a previously localized
bundle does not feed its own translations back in as source keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			path, err := e.resolveBundle()
			if err != nil {
				return err
			}

			sum, err := pipeline.Run(context.Background(), pipeline.Options{
				BundlePath:  path,
				StoreDir:    e.storeDir(),
				ExtractOnly: true,
				LatinGuard:  !keepNonLatin,
				OnLog:       logInfo,
				OnError:     logError,
			})
			if err != nil {
				return err
			}

			logInfo(i18n.N("Found %d candidate string", "Found %d candidate strings", sum.Extracted), sum.Extracted)
			logSuccess(i18n.T("Extraction complete!"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepNonLatin, "keep-non-latin", false, "Keep candidates in non-Latin scripts")

	return cmd
}

// ---------------------------------------------------------------------------
// translate (the full pass: extract, translate, back up, substitute)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		lang       string
		apiKey     string
		baseURL    string
		proxy      string
		timeout    time.Duration
		dryRun     bool
		skipBackup bool
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate and apply a language to the bundle",
		Long: `Run the full localization pass for one language.

Extracts candidate strings, translates the ones missing from the
translation store via DeepL, saves the store, snapshots the bundle,
and substitutes the translations in place.

Without an API key (flag, DEEPL_API_KEY, or 'uitrans auth set-key')
a small built-in sample dictionary is used instead, which covers a
handful of common strings for Korean only.

Examples:
  # Translate to Korean
  uitrans translate --lang ko

  # Preview without writing the bundle
  uitrans translate --lang ja --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(translateArgs{
				lang: lang, apiKey: apiKey, baseURL: baseURL,
				proxy: proxy, timeout: timeout,
				dryRun: dryRun, skipBackup: skipBackup,
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Target language code (required)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "DeepL API key (or DEEPL_API_KEY env var)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "DeepL API base URL (default "+translate.DefaultBaseURL+")")
	cmd.Flags().StringVar(&proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout (0 = default)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run everything except the final bundle write")
	cmd.Flags().BoolVar(&skipBackup, "skip-backup", false, "Skip the pre-substitution backup (not recommended)")
	_ = cmd.MarkFlagRequired("lang")

	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, code := range langmeta.Supported() {
			meta := langmeta.Resolve(code)
			out = append(out, code+"\t"+meta.Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

type translateArgs struct {
	lang, apiKey, baseURL, proxy string
	timeout                      time.Duration
	dryRun, skipBackup           bool
}

func runTranslate(a translateArgs) error {
	e := loadEnv()

	if !langmeta.IsSupported(a.lang) {
		return fmt.Errorf("unsupported language %q (supported: %s)",
			a.lang, strings.Join(langmeta.Supported(), ", "))
	}

	path, err := e.resolveBundle()
	if err != nil {
		return err
	}

	skipBackup := a.skipBackup
	if !skipBackup && e.cfg != nil && e.cfg.SkipBackup {
		skipBackup = true
	}
	if skipBackup && !a.dryRun {
		logWarning("Backup disabled: a bad write cannot be undone")
	}

	key := settings.ResolveAPIKey(a.apiKey)
	if key == "" {
		logWarning("No DeepL API key configured, using the built-in sample dictionary")
		logWarning("Set one with: uitrans auth set-key <key>")
	}

	// Graceful cancellation: an interrupt stops translation mid-run, and
	// already-merged chunks are still saved to the store.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, saving progress...")
		cancel()
	}()

	chunkSize := 0
	if e.cfg != nil {
		chunkSize = e.cfg.ChunkSize
	}

	translator := translate.New(ctx, translate.Options{
		APIKey:    key,
		BaseURL:   a.baseURL,
		Proxy:     a.proxy,
		Timeout:   a.timeout,
		ChunkSize: chunkSize,
		OnLog:     logInfo,
		OnError:   logError,
		OnProgress: func(done, total int) {
			logInfo("  translated %d/%d", done, total)
		},
	})

	meta := langmeta.Resolve(a.lang)
	logInfo("Target language: %s (%s) %s", a.lang, meta.Name, meta.Flag)

	sum, err := pipeline.Run(ctx, pipeline.Options{
		BundlePath: path,
		Lang:       a.lang,
		StoreDir:   e.storeDir(),
		BackupDir:  e.backupDir(),
		Translator: translator,
		DryRun:     a.dryRun,
		SkipBackup: skipBackup,
		LatinGuard: true,
		OnLog:      logInfo,
		OnError:    logError,
	})
	if err != nil {
		if ctx.Err() != nil {
			logWarning("Translation interrupted, partial progress saved")
			return nil
		}
		return err
	}

	if sum.FailedChunks > 0 {
		logWarning("%d translation chunk(s) failed and were left in English", sum.FailedChunks)
	}

	fmt.Fprintln(os.Stderr)
	logInfo("Summary: %d extracted, %d new, %d translated, %d keys applied (%d occurrences)",
		sum.Extracted, sum.Pending, sum.Translated, sum.Keys, sum.Occurrences)
	if sum.StoreTotal > 0 {
		logInfo("Store coverage: %d/%d translated", sum.StoreTranslated, sum.StoreTotal)
	}
	if a.dryRun {
		logInfo("Dry run: bundle not modified")
		return nil
	}
	if sum.Occurrences > 0 {
		logInfo("Restart Cursor to see the translated UI")
	}
	logSuccess(i18n.T("Localization complete!"))
	return nil
}

// ---------------------------------------------------------------------------
// restore / backups
// ---------------------------------------------------------------------------

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put the most recent backup of the bundle back in place",
		Long: `Restore the bundle from its most recent backup.

The backup file itself is kept, so restore can be repeated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			path, err := e.resolveBundle()
			if err != nil {
				return err
			}

			rec, err := pipeline.Restore(path, e.backupDir(), e.storeDir())
			if err != nil {
				return err
			}

			logInfo("Restored %s", path)
			logInfo("From backup %s (%s)", rec.Path, rec.Created.Format("2006-01-02 15:04:05"))
			logSuccess(i18n.T("Restore complete!"))
			return nil
		},
	}

	return cmd
}

func newBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List available bundle backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			mgr := backup.NewManager(e.backupDir())

			recs, err := mgr.List()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				logInfo(i18n.T("No backups found."))
				return nil
			}

			fmt.Fprintf(os.Stderr, "\n%sBackups%s (%s)\n", colorBlue, colorReset, e.backupDir())
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			for _, rec := range recs {
				size := "?"
				if info, err := os.Stat(rec.Path); err == nil {
					size = fmt.Sprintf("%.1f MB", float64(info.Size())/(1024*1024))
				}
				fmt.Fprintf(os.Stderr, "  %s  %-10s %s\n",
					rec.Created.Format("2006-01-02 15:04:05"), size, rec.Original)
			}
			fmt.Fprintln(os.Stderr)
			return nil
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// auth (DeepL API key management)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the DeepL API key",
		Long: `Manage the stored DeepL API key.

The key is resolved in this order: --api-key flag, DEEPL_API_KEY
environment variable (a .env file in the working directory is read
automatically), then the credentials store at ` + settings.FilePath() + `.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-key <key>",
			Short: "Save a DeepL API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := settings.SetKey(settings.ProviderDeepL, args[0]); err != nil {
					return err
				}
				logSuccess(i18n.T("API key saved."))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the stored DeepL API key",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := settings.Remove(settings.ProviderDeepL); err != nil {
					return err
				}
				logSuccess(i18n.T("API key removed."))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the API key comes from",
			Run: func(cmd *cobra.Command, args []string) {
				switch {
				case os.Getenv(settings.EnvAPIKey) != "":
					logInfo("API key: from %s environment variable", settings.EnvAPIKey)
				case settings.ResolveAPIKey("") != "":
					logInfo("API key: from credentials store (%s)", settings.FilePath())
				default:
					logInfo("No API key configured, translate will use the sample dictionary")
				}
			},
		},
	)

	return cmd
}
