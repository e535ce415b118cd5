package fs

import (
	"strconv"
	"time"
)

// EntryType represents the type of a volume entry.
type EntryType string

const (
	TypeDir  EntryType = "dir"
	TypeFile EntryType = "file"
)

// Metadata holds the volume metadata for an entry.
type Metadata struct {
	Type  EntryType
	Mode  string
	UID   string
	GID   string
	Size  int64
	CTime int64 // creation time (unix timestamp)
	MTime int64
	ATime int64
}

// NewDirMeta creates metadata for a new directory.
func NewDirMeta(mode string) *Metadata {
	if mode == "" {
		mode = "0755"
	}
	return newMeta(TypeDir, mode, 0)
}

// NewFileMeta creates metadata for a new file.
func NewFileMeta(mode string, size int64) *Metadata {
	if mode == "" {
		mode = "0644"
	}
	return newMeta(TypeFile, mode, size)
}

func newMeta(t EntryType, mode string, size int64) *Metadata {
	now := time.Now().Unix()
	return &Metadata{
		Type:  t,
		Mode:  mode,
		UID:   "0",
		GID:   "0",
		Size:  size,
		CTime: now,
		MTime: now,
		ATime: now,
	}
}

// ToMap converts metadata to a map for HSET.
func (m *Metadata) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type":  string(m.Type),
		"mode":  m.Mode,
		"uid":   m.UID,
		"gid":   m.GID,
		"size":  strconv.FormatInt(m.Size, 10),
		"ctime": strconv.FormatInt(m.CTime, 10),
		"mtime": strconv.FormatInt(m.MTime, 10),
		"atime": strconv.FormatInt(m.ATime, 10),
	}
}

// MetaFromMap parses a Redis hash map into Metadata.
func MetaFromMap(m map[string]string) *Metadata {
	if m == nil {
		return nil
	}
	size, _ := strconv.ParseInt(m["size"], 10, 64)
	ctime, _ := strconv.ParseInt(m["ctime"], 10, 64)
	mtime, _ := strconv.ParseInt(m["mtime"], 10, 64)
	atime, _ := strconv.ParseInt(m["atime"], 10, 64)

	return &Metadata{
		Type:  EntryType(m["type"]),
		Mode:  m["mode"],
		UID:   m["uid"],
		GID:   m["gid"],
		Size:  size,
		CTime: ctime,
		MTime: mtime,
		ATime: atime,
	}
}
