package service

import (
	"compress/gzip"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// keepExports is how many dump files to retain in the export directory.
const keepExports = 7

// ExportWorker periodically dumps the public dataset (sources, posts,
// votes) to a gzipped SQL file so researchers can download it via /export.
// User accounts are excluded: emails and password material never leave the
// database.
type ExportWorker struct {
	pool      *pgxpool.Pool
	exportDir string
	interval  time.Duration
	stopCh    chan struct{}
}

// NewExportWorker creates a worker that writes a dump every interval.
func NewExportWorker(pool *pgxpool.Pool, exportDir string, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		pool:      pool,
		exportDir: exportDir,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic export loop. It runs one dump immediately,
// then every interval.
func (w *ExportWorker) Start(ctx context.Context) {
	log.Printf("export-worker: starting (interval=%s, dir=%s)", w.interval, w.exportDir)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("export-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("export-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *ExportWorker) Stop() {
	close(w.stopCh)
}

// tick runs one cycle: write a fresh dump, then prune old ones.
func (w *ExportWorker) tick(ctx context.Context) {
	start := time.Now()

	name, rows, err := w.export(ctx)
	if err != nil {
		log.Printf("export-worker: error: %v", err)
		return
	}

	if err := w.prune(); err != nil {
		log.Printf("export-worker: prune error: %v", err)
	}

	log.Printf("export-worker: wrote %s (%d rows, %s)",
		name, rows, time.Since(start).Round(time.Millisecond))
}

// export writes one gzipped SQL dump and returns its filename.
func (w *ExportWorker) export(ctx context.Context) (string, int, error) {
	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", 0, err
	}

	name := fmt.Sprintf("crowdtruth-%s.sql.gz", time.Now().UTC().Format("20060102-150405"))
	tmp := filepath.Join(w.exportDir, name+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return "", 0, err
	}

	gz := gzip.NewWriter(f)
	total := 0

	for _, table := range []string{"sources", "posts", "votes"} {
		n, err := w.dumpTable(ctx, gz, table)
		if err != nil {
			gz.Close()
			f.Close()
			os.Remove(tmp)
			return "", 0, fmt.Errorf("dump %s: %w", table, err)
		}
		total += n
	}

	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", 0, err
	}

	final := filepath.Join(w.exportDir, name)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", 0, err
	}
	return name, total, nil
}

// dumpTable writes one table as INSERT statements.
func (w *ExportWorker) dumpTable(ctx context.Context, out *gzip.Writer, table string) (int, error) {
	rows, err := w.pool.Query(ctx, "SELECT * FROM "+table)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}

	fmt.Fprintf(out, "-- %s\n", table)

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return count, err
		}

		lits := make([]string, len(values))
		for i, v := range values {
			lits[i] = sqlLiteral(v)
		}
		fmt.Fprintf(out, "INSERT INTO %s (%s) VALUES (%s);\n",
			table, strings.Join(cols, ", "), strings.Join(lits, ", "))
		count++
	}
	return count, rows.Err()
}

// sqlLiteral renders a value as a SQL literal. Strings are single-quote
// escaped; everything else uses its Go formatting.
func sqlLiteral(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case time.Time:
		return "'" + val.UTC().Format(time.RFC3339Nano) + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case []byte:
		return "'\\x" + fmt.Sprintf("%x", val) + "'"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// prune removes old dumps beyond keepExports, oldest first.
func (w *ExportWorker) prune() error {
	entries, err := os.ReadDir(w.exportDir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql.gz") {
			files = append(files, e.Name())
		}
	}
	if len(files) <= keepExports {
		return nil
	}

	// Filenames embed UTC timestamps so lexical order is chronological.
	sort.Strings(files)
	for _, name := range files[:len(files)-keepExports] {
		if err := os.Remove(filepath.Join(w.exportDir, name)); err != nil {
			return err
		}
	}
	return nil
}
