package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is the number of settings backups kept per file
const DefaultBackupRetention = 3

// BackupManager keeps rotating copies of a file taken before it is rewritten
type BackupManager struct {
	MaxBackups int
	now        func() time.Time
}

// NewBackupManager creates a BackupManager; non-positive retention uses the default.
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{MaxBackups: maxBackups, now: time.Now}
}

// Guard runs write with a backup of path in place. When path does not exist
// write runs unguarded. When write fails the newest backup is restored and the
// write error returned; otherwise old backups beyond the retention are pruned.
func (bm *BackupManager) Guard(path string, write func() error) error {
	if !FileExists(path) {
		return write()
	}

	if _, err := bm.CreateBackup(path); err != nil {
		return err
	}

	if err := write(); err != nil {
		if restoreErr := bm.RestoreFromLatestBackup(path); restoreErr != nil {
			return fmt.Errorf("%w (restore failed: %v)", err, restoreErr)
		}
		return err
	}

	// Pruning is best effort; the write already succeeded.
	_ = bm.CleanupOldBackups(path)
	return nil
}

// CreateBackup copies path to <path>.backup-YYYYMMDDHHMMSS-PID
func (bm *BackupManager) CreateBackup(path string) (string, error) {
	backupPath := fmt.Sprintf("%s.backup-%s-%d", path, bm.now().Format("20060102150405"), os.Getpid())
	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup of %s: %w", filepath.Base(path), err)
	}
	return backupPath, nil
}

// ListBackups returns the backups of path, oldest first.
func (bm *BackupManager) ListBackups(path string) ([]string, error) {
	backups, err := filepath.Glob(path + ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		iInfo, err1 := os.Stat(backups[i])
		jInfo, err2 := os.Stat(backups[j])
		if err1 != nil || err2 != nil || iInfo.ModTime().Equal(jInfo.ModTime()) {
			return backups[i] < backups[j]
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})
	return backups, nil
}

// CleanupOldBackups removes all but the newest MaxBackups backups.
func (bm *BackupManager) CleanupOldBackups(path string) error {
	backups, err := bm.ListBackups(path)
	if err != nil {
		return err
	}
	excess := len(backups) - bm.MaxBackups
	if excess <= 0 {
		return nil
	}
	for _, old := range backups[:excess] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old, err)
		}
	}
	return nil
}

// RestoreFromLatestBackup copies the newest backup back over path.
func (bm *BackupManager) RestoreFromLatestBackup(path string) error {
	backups, err := bm.ListBackups(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backup files found for %s", path)
	}
	if err := copyFile(backups[len(backups)-1], path); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
