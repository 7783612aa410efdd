package inventory

import (
	"fmt"
	"time"
)

// Messages holds the user-facing texts and toast presets fired by the editor.
type Messages struct {
	Added         Notification
	Saved         Notification
	Deleted       Notification
	ConfirmDelete Confirmation
	deletedFormat string
	confirmFormat string
}

// DefaultMessages returns the Indonesian toast and prompt presets.
func DefaultMessages() Messages {
	return Messages{
		Added: Notification{
			Severity: SeverityInfo,
			Message:  "Barang berhasil ditambahkan",
			Position: "top-right",
			Duration: 2 * time.Second,
			Theme:    "colored",
		},
		Saved: Notification{
			Severity: SeveritySuccess,
			Title:    "Data berhasil disimpan",
			Message:  "Data berhasil disimpan",
			Position: "top-end",
			Duration: 3 * time.Second,
		},
		Deleted: Notification{
			Severity: SeverityError,
			Position: "top-right",
			Duration: 2 * time.Second,
			Theme:    "dark",
		},
		ConfirmDelete: Confirmation{
			Title:        "Apakah Anda yakin?",
			Icon:         "warning",
			ConfirmLabel: "Hapus",
			CancelLabel:  "Batal",
		},
		deletedFormat: "%s telah dihapus",
		confirmFormat: " %s akan dihapus secara permanen!",
	}
}

func (m Messages) deleted(name string) Notification {
	n := m.Deleted
	format := m.deletedFormat
	if format == "" {
		format = "%s telah dihapus"
	}
	n.Message = fmt.Sprintf(format, name)
	return n
}

func (m Messages) confirmDelete(name string) Confirmation {
	c := m.ConfirmDelete
	format := m.confirmFormat
	if format == "" {
		format = " %s akan dihapus secara permanen!"
	}
	c.Text = fmt.Sprintf(format, name)
	return c
}
