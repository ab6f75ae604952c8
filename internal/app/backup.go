package app

import (
	"fmt"

	"github.com/pstuifzand/tui-treeview/internal/storage"
)

// Save writes the outline. The first save of a session keeps a backup of
// the file as it was on disk.
func (a *App) Save() error {
	if !a.backedUp {
		a.backupOnDisk()
		a.backedUp = true
	}

	if err := a.store.Save(storage.FromTree(a.title, a.tree)); err != nil {
		return err
	}
	a.dirty = false
	a.lastSave = a.now()
	a.needsRender = true
	a.log.Debug().Str("file", a.store.FilePath).Msg("Outline saved")
	return nil
}

func (a *App) backupOnDisk() {
	if a.backups == nil || !a.store.FileExists() {
		return
	}
	prev, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("Cannot read outline for backup")
		return
	}
	path, err := a.backups.CreateBackup(prev, a.store.FilePath, a.sessionID)
	if err != nil {
		a.log.Warn().Err(err).Msg("Backup failed")
		return
	}
	a.log.Info().Str("backup", path).Msg("Backup created")

	if n, err := a.backups.Prune(a.store.FilePath, backupsPerFile); err != nil {
		a.log.Warn().Err(err).Msg("Pruning backups failed")
	} else if n > 0 {
		a.log.Debug().Int("removed", n).Msg("Pruned old backups")
	}
}

// handlePreviousBackup shows the next older backup of the current file
func (a *App) handlePreviousBackup() bool {
	backups, ok := a.listBackups()
	if !ok {
		return false
	}
	idx := a.backupIndex
	if idx < 0 {
		idx = len(backups)
	}
	if idx == 0 {
		a.SetStatus("No older backups")
		return false
	}
	return a.showBackup(backups, idx-1)
}

// handleNextBackup shows the next newer backup of the current file
func (a *App) handleNextBackup() bool {
	backups, ok := a.listBackups()
	if !ok {
		return false
	}
	if a.backupIndex < 0 || a.backupIndex >= len(backups)-1 {
		a.SetStatus("No newer backups")
		return false
	}
	return a.showBackup(backups, a.backupIndex+1)
}

func (a *App) listBackups() ([]storage.BackupMetadata, bool) {
	if a.backups == nil {
		a.SetStatus("Backups are disabled")
		return nil, false
	}
	backups, err := a.backups.FindBackupsForFile(a.store.FilePath)
	if err != nil {
		a.SetStatus("Failed to list backups: " + err.Error())
		return nil, false
	}
	if len(backups) == 0 {
		a.SetStatus("No backups found")
		return nil, false
	}
	return backups, true
}

// showBackup replaces the tree with a backup's items. Nothing is written
// until the next save.
func (a *App) showBackup(backups []storage.BackupMetadata, idx int) bool {
	doc, err := storage.LoadBackup(backups[idx])
	if err != nil {
		a.SetStatus("Failed to load backup: " + err.Error())
		return false
	}
	a.tree.Replace(doc.Items)
	a.backupIndex = idx
	a.SetStatus(fmt.Sprintf("Backup %d/%d from %s (session %s)",
		idx+1, len(backups), backups[idx].Timestamp.Format("2006-01-02 15:04:05"), backups[idx].SessionID))
	return true
}
