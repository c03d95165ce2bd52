// Package pipeline runs a complete localization pass over a workbench
// bundle: extract candidate strings, translate the missing ones, persist
// the translation store, snapshot the bundle, and substitute translations
// in place.
//
// The pipeline is deliberately sequential. Every phase that can fail does
// so before the destructive write at the end, and the write itself goes
// through an atomic temp-file rename, so an interrupted run never leaves
// a half-modified bundle behind.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uitrans/uitrans/backup"
	"github.com/uitrans/uitrans/bundle"
	"github.com/uitrans/uitrans/extract"
	"github.com/uitrans/uitrans/langmeta"
	"github.com/uitrans/uitrans/lockfile"
	"github.com/uitrans/uitrans/store"
	"github.com/uitrans/uitrans/subst"
	"github.com/uitrans/uitrans/translate"
)

// Options configures a localization run.
type Options struct {
	// BundlePath is the workbench bundle to process. Required.
	BundlePath string

	// Lang is the target language code. Required unless ExtractOnly.
	Lang string

	// StoreDir is where translation store files live. Default ".".
	StoreDir string

	// BackupDir is where bundle snapshots go. Default "backups" under
	// StoreDir.
	BackupDir string

	// Translator performs the actual translation. Required unless
	// ExtractOnly. Use translate.New to build one.
	Translator translate.Translator

	// ExtractOnly stops after extraction and store bookkeeping. No
	// translation request is made and the bundle is never modified.
	ExtractOnly bool

	// DryRun runs every phase except backup and the final write. The
	// store file is still updated so translations are not lost.
	DryRun bool

	// SkipBackup skips the pre-substitution snapshot.
	SkipBackup bool

	// LatinGuard drops extraction candidates whose script is not Latin.
	LatinGuard bool

	// Logging callbacks. Nil callbacks are ignored.
	OnLog   func(format string, args ...any)
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	}
}

func (o *Options) storeDir() string {
	if o.StoreDir == "" {
		return "."
	}
	return o.StoreDir
}

func (o *Options) backupDir() string {
	if o.BackupDir != "" {
		return o.BackupDir
	}
	return filepath.Join(o.storeDir(), "backups")
}

// Summary reports what a run did.
type Summary struct {
	// Extracted is the number of candidate strings found in the bundle.
	Extracted int
	// Pending is the number of new untranslated keys added to the store.
	Pending int
	// Translated is the number of translations merged into the store.
	Translated int
	// FailedChunks is the number of provider chunks that failed and were
	// passed through, when the translator reports them.
	FailedChunks int
	// StoreTotal and StoreTranslated describe the store after the run.
	StoreTotal      int
	StoreTranslated int
	// Keys and Occurrences describe the substitution phase.
	Keys        int
	Occurrences int
	// BackupPath is the snapshot created before the write, if any.
	BackupPath string
}

// Run executes a full localization pass.
func Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	if opts.BundlePath == "" {
		return sum, errors.New("no bundle path given")
	}
	if !opts.ExtractOnly {
		if opts.Lang == "" {
			return sum, errors.New("no target language given")
		}
		if !langmeta.IsSupported(opts.Lang) {
			return sum, fmt.Errorf("unsupported language %q (supported: %v)",
				opts.Lang, langmeta.Supported())
		}
		if opts.Translator == nil {
			return sum, errors.New("no translator configured")
		}
	}

	// Phase 1: read and extract.
	content, err := bundle.Load(opts.BundlePath)
	if err != nil {
		return sum, err
	}
	opts.log("Bundle: %s (%d bytes)", opts.BundlePath, len(content))

	lf, err := lockfile.Load(opts.storeDir())
	if err != nil {
		opts.logError("Ignoring unreadable lock file: %v", err)
		lf = nil
	}
	if lf != nil && !lf.BundleChanged(content) {
		opts.log("Bundle unchanged since last run (%s)", lf.Summary())
	}

	candidates := extract.ExtractWithOptions(content, extract.Options{
		ScriptGuard: opts.LatinGuard,
	})
	sum.Extracted = len(candidates)
	opts.log("Extracted %d candidate strings", len(candidates))

	if opts.ExtractOnly {
		path := filepath.Join(opts.storeDir(), "extracted_strings.txt")
		if err := extract.SaveStrings(candidates, path); err != nil {
			return sum, err
		}
		opts.log("Saved candidates to %s", path)
		return sum, nil
	}

	// Phase 2: store bookkeeping.
	storePath := store.PathFor(opts.storeDir(), opts.Lang)
	st, err := store.Load(storePath)
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return sum, err
		}
		opts.logError("Store %s is corrupt, starting fresh: %v", storePath, err)
	}

	sum.Pending = store.AddPending(st, candidates)
	if sum.Pending > 0 {
		opts.log("Added %d new strings to %s", sum.Pending, storePath)
	}

	missing := store.DiffUntranslated(candidates, st)

	// Phase 3: translate the gap.
	if len(missing) > 0 {
		opts.log("Translating %d strings to %s...", len(missing), opts.Lang)
		translated, err := opts.Translator.Translate(ctx, missing, opts.Lang)
		if err != nil {
			// Save pending keys before bailing so extraction work
			// survives the failure.
			if saveErr := store.Save(st, storePath); saveErr != nil {
				opts.logError("Saving store: %v", saveErr)
			}
			return sum, fmt.Errorf("translating: %w", err)
		}

		incoming := make(store.Store, len(missing))
		for i, src := range missing {
			if translated[i] != src {
				incoming[src] = translated[i]
			}
		}
		sum.Translated = store.Merge(st, incoming)
		opts.log("Merged %d translations", sum.Translated)

		if fc, ok := opts.Translator.(interface{ FailedChunks() int }); ok {
			sum.FailedChunks = fc.FailedChunks()
		}
	} else {
		opts.log("Store already covers all extracted strings")
	}

	if err := store.Save(st, storePath); err != nil {
		return sum, err
	}
	sum.StoreTotal, sum.StoreTranslated, _ = store.Stats(st)

	// Phase 4: substitute. Computed before the backup so a run that
	// changes nothing never touches the bundle.
	modified, res := subst.Apply(content, st)
	sum.Keys = res.Keys
	sum.Occurrences = res.Occurrences

	if res.Occurrences == 0 {
		opts.log("No translatable strings left in the bundle, nothing to write")
		return sum, nil
	}
	opts.log("Substituted %d keys (%d occurrences)", res.Keys, res.Occurrences)

	if opts.DryRun {
		opts.log("Dry run, bundle left untouched")
		return sum, nil
	}

	// Phase 5: snapshot, then write.
	if !opts.SkipBackup {
		mgr := backup.NewManager(opts.backupDir())
		rec, err := mgr.Backup(opts.BundlePath)
		if err != nil {
			return sum, fmt.Errorf("backing up bundle: %w", err)
		}
		sum.BackupPath = rec.Path
		opts.log("Backup: %s", rec.Path)
	}

	if err := bundle.Write(opts.BundlePath, modified); err != nil {
		return sum, err
	}
	opts.log("Wrote %s", opts.BundlePath)

	if lf != nil {
		applied := make(map[string]string, len(st))
		for k, v := range st {
			if v != "" {
				applied[k] = v
			}
		}
		lf.RecordWrite(opts.BundlePath, modified, opts.Lang, applied)
		if err := lf.Save(); err != nil {
			opts.logError("Saving lock file: %v", err)
		}
	}
	return sum, nil
}

// Restore puts the most recent snapshot of the bundle back in place and
// clears the applied state in the lock file under storeDir.
func Restore(bundlePath, backupDir, storeDir string) (backup.Record, error) {
	mgr := backup.NewManager(backupDir)
	rec, ok, err := mgr.Latest(bundlePath)
	if err != nil {
		return backup.Record{}, err
	}
	if !ok {
		return backup.Record{}, fmt.Errorf("no backups of %s in %s",
			filepath.Base(bundlePath), backupDir)
	}
	if err := mgr.Restore(rec, bundlePath); err != nil {
		return backup.Record{}, err
	}

	if lf, err := lockfile.Load(storeDir); err == nil {
		if content, err := bundle.Load(bundlePath); err == nil {
			lf.RecordRestore(bundlePath, content)
			_ = lf.Save()
		}
	}
	return rec, nil
}

// StoreStats loads the store for lang and reports its coverage without
// touching the bundle.
func StoreStats(storeDir, lang string) (total, translated, untranslated int, err error) {
	st, err := store.Load(store.PathFor(storeDir, lang))
	if err != nil && !errors.Is(err, store.ErrCorrupt) {
		return 0, 0, 0, err
	}
	total, translated, untranslated = store.Stats(st)
	return total, translated, untranslated, nil
}

// BundleExists reports whether the bundle file is present and readable.
func BundleExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
