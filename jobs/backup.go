package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// BackupJob copies every loan file into a timestamped subdirectory of the
// backup directory.
type BackupJob struct {
	dataDir   string
	backupDir string
	log       zerolog.Logger
}

func NewBackupJob(dataDir, backupDir string, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		dataDir:   dataDir,
		backupDir: backupDir,
		log:       log.With().Str("component", "backup").Logger(),
	}
}

func (j *BackupJob) Name() string { return "backup" }

func (j *BackupJob) Run() error {
	entries, err := os.ReadDir(j.dataDir)
	if err != nil {
		return fmt.Errorf("read data dir: %w", err)
	}

	target := filepath.Join(j.backupDir, time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(j.dataDir, entry.Name()))
		if err != nil {
			j.log.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unreadable file")
			continue
		}
		if err := os.WriteFile(filepath.Join(target, entry.Name()), data, 0o644); err != nil {
			return fmt.Errorf("write backup of %s: %w", entry.Name(), err)
		}
		copied++
	}
	j.log.Info().Int("files", copied).Str("target", target).Msg("Backup completed")
	return nil
}
