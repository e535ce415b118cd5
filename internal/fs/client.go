package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client provides filesystem effects on a volume stored in Redis.
//
// Layout per volume: a hash of metadata per path, a string of data per file and a
// set of child names per directory. Paths are normalized to absolute volume paths.
type Client struct {
	rdb    *redis.Client
	keys   *KeyGen
	Volume string
}

// NewClient creates a new volume client.
func NewClient(rdb *redis.Client, volume string) *Client {
	return &Client{
		rdb:    rdb,
		keys:   NewKeyGen(volume),
		Volume: volume,
	}
}

// Keys returns the key generator.
func (c *Client) Keys() *KeyGen {
	return c.keys
}

// --- Init ---

// Init bootstraps the volume root directory if it doesn't exist.
func (c *Client) Init(ctx context.Context) error {
	metaKey := c.keys.Meta("/")
	// HSETNX keeps it idempotent
	created, err := c.rdb.HSetNX(ctx, metaKey, "type", "dir").Result()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if created {
		meta := NewDirMeta("0755")
		if _, err := c.rdb.HSet(ctx, metaKey, meta.ToMap()).Result(); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	return nil
}

// --- Stat / Exists ---

// Stat returns metadata for a path. Returns nil, nil if not found.
func (c *Client) Stat(ctx context.Context, path string) (*Metadata, error) {
	m, err := c.rdb.HGetAll(ctx, c.keys.Meta(NormalizePath(path))).Result()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return MetaFromMap(m), nil
}

// Exists checks if a path exists.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.keys.Meta(NormalizePath(path))).Result()
	if err != nil {
		return false, fmt.Errorf("access: %w", err)
	}
	return n > 0, nil
}

// IsDir checks if the path is an existing directory.
func (c *Client) IsDir(ctx context.Context, path string) (bool, error) {
	t, err := c.rdb.HGet(ctx, c.keys.Meta(NormalizePath(path)), "type").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t == string(TypeDir), nil
}

// ReadDir returns the child entry names of a directory.
func (c *Client) ReadDir(ctx context.Context, path string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, c.keys.Dir(NormalizePath(path))).Result()
	if err != nil {
		return nil, fmt.Errorf("readdir: %w", err)
	}
	return members, nil
}

// --- CreateFile ---

// CreateFile creates an empty file. The parent directory must exist.
func (c *Client) CreateFile(ctx context.Context, path string) error {
	path = NormalizePath(path)
	exists, err := c.Exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("create '%s': %w", path, iofs.ErrExist)
	}
	if err := c.requireParentDir(ctx, "create", path); err != nil {
		return err
	}
	return c.putFile(ctx, "create", path, "")
}

// --- MkdirAll ---

// MkdirAll creates a directory along with any missing parents.
func (c *Client) MkdirAll(ctx context.Context, path string) error {
	path = NormalizePath(path)
	if path == "/" {
		return nil
	}

	current := ""
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		meta, err := c.Stat(ctx, current)
		if err != nil {
			return err
		}
		if meta == nil {
			if err := c.createDir(ctx, current); err != nil {
				return err
			}
			continue
		}
		if meta.Type != TypeDir {
			return fmt.Errorf("mkdir: cannot create directory '%s': %w", path, ErrNotDir)
		}
	}
	return nil
}

func (c *Client) createDir(ctx context.Context, path string) error {
	parent, base := SplitPath(path)
	meta := NewDirMeta("0755")

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.keys.Meta(path), meta.ToMap())
	pipe.SAdd(ctx, c.keys.Dir(parent), base)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return nil
}

// --- Rmdir ---

// Rmdir removes an empty directory.
func (c *Client) Rmdir(ctx context.Context, path string) error {
	path = NormalizePath(path)
	if IsRoot(path) {
		return fmt.Errorf("rmdir: %w", ErrRoot)
	}

	meta, err := c.Stat(ctx, path)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("rmdir: failed to remove '%s': %w", path, iofs.ErrNotExist)
	}
	if meta.Type != TypeDir {
		return fmt.Errorf("rmdir: failed to remove '%s': %w", path, ErrNotDir)
	}

	count, err := c.rdb.SCard(ctx, c.keys.Dir(path)).Result()
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("rmdir: failed to remove '%s': %w", path, ErrNotEmpty)
	}

	return c.unlinkDir(ctx, "rmdir", path)
}

func (c *Client) unlinkDir(ctx context.Context, op, path string) error {
	parent, base := SplitPath(path)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, c.keys.Meta(path))
	pipe.Del(ctx, c.keys.Dir(path))
	pipe.Del(ctx, c.keys.Xattr(path))
	pipe.SRem(ctx, c.keys.Dir(parent), base)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// --- WriteFile ---

// WriteFile sets file content (truncate/overwrite), creating the file if needed.
func (c *Client) WriteFile(ctx context.Context, path, content string) error {
	path = NormalizePath(path)

	meta, err := c.Stat(ctx, path)
	if err != nil {
		return err
	}

	if meta != nil {
		if meta.Type == TypeDir {
			return fmt.Errorf("write: %s: %w", path, ErrIsDir)
		}
		now := strconv.FormatInt(time.Now().Unix(), 10)
		pipe := c.rdb.TxPipeline()
		pipe.Set(ctx, c.keys.Data(path), content, 0)
		pipe.HSet(ctx, c.keys.Meta(path), "size", strconv.Itoa(len(content)), "mtime", now)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	}

	if err := c.requireParentDir(ctx, "write", path); err != nil {
		return err
	}
	return c.putFile(ctx, "write", path, content)
}

// --- AppendFile ---

// AppendFile appends content to a file, creating the file if needed.
func (c *Client) AppendFile(ctx context.Context, path, content string) error {
	path = NormalizePath(path)

	meta, err := c.Stat(ctx, path)
	if err != nil {
		return err
	}
	if meta == nil {
		return c.WriteFile(ctx, path, content)
	}
	if meta.Type == TypeDir {
		return fmt.Errorf("append: %s: %w", path, ErrIsDir)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Append(ctx, c.keys.Data(path), content)
	strlenCmd := pipe.StrLen(ctx, c.keys.Data(path))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append: %w", err)
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	newSize := strconv.FormatInt(strlenCmd.Val(), 10)
	if _, err := c.rdb.HSet(ctx, c.keys.Meta(path), "size", newSize, "mtime", now).Result(); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// --- Remove ---

// Remove removes a file. Directories are refused.
func (c *Client) Remove(ctx context.Context, path string) error {
	path = NormalizePath(path)
	if IsRoot(path) {
		return fmt.Errorf("rm: %w", ErrRoot)
	}

	meta, err := c.Stat(ctx, path)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("rm: cannot remove '%s': %w", path, iofs.ErrNotExist)
	}
	if meta.Type == TypeDir {
		return fmt.Errorf("rm: cannot remove '%s': %w", path, ErrIsDir)
	}
	return c.unlinkFile(ctx, path)
}

func (c *Client) unlinkFile(ctx context.Context, path string) error {
	parent, base := SplitPath(path)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, c.keys.Meta(path))
	pipe.Del(ctx, c.keys.Data(path))
	pipe.Del(ctx, c.keys.Xattr(path))
	pipe.SRem(ctx, c.keys.Dir(parent), base)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return nil
}

// RemoveAll removes a file or directory tree. A missing path is not an error.
func (c *Client) RemoveAll(ctx context.Context, path string) error {
	path = NormalizePath(path)
	if IsRoot(path) {
		return fmt.Errorf("rm: %w", ErrRoot)
	}

	meta, err := c.Stat(ctx, path)
	if err != nil {
		return err
	}
	if meta == nil {
		return nil
	}
	if meta.Type != TypeDir {
		return c.unlinkFile(ctx, path)
	}

	// DFS traversal
	children, err := c.ReadDir(ctx, path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := c.RemoveAll(ctx, JoinPath(path, child)); err != nil {
			return err
		}
	}
	return c.unlinkDir(ctx, "rm", path)
}

// --- Rename ---

// Rename moves src to dst. Unlike mv, an existing directory at dst is not entered;
// dst names the new entry exactly.
func (c *Client) Rename(ctx context.Context, src, dst string) error {
	src = NormalizePath(src)
	dst = NormalizePath(dst)

	srcMeta, err := c.Stat(ctx, src)
	if err != nil {
		return err
	}
	if srcMeta == nil {
		return fmt.Errorf("rename: cannot stat '%s': %w", src, iofs.ErrNotExist)
	}
	if src == dst {
		return nil
	}
	if srcMeta.Type == TypeDir && strings.HasPrefix(dst, src+"/") {
		return fmt.Errorf("rename: cannot move '%s' into itself", src)
	}

	dstMeta, err := c.Stat(ctx, dst)
	if err != nil {
		return err
	}
	if dstMeta != nil && dstMeta.Type == TypeDir {
		return fmt.Errorf("rename: cannot overwrite '%s': %w", dst, ErrIsDir)
	}
	if err := c.requireParentDir(ctx, "rename", dst); err != nil {
		return err
	}

	if srcMeta.Type == TypeDir {
		if err := c.copyTree(ctx, src, dst); err != nil {
			return err
		}
		return c.RemoveAll(ctx, src)
	}
	return c.moveFile(ctx, src, dst)
}

func (c *Client) moveFile(ctx context.Context, src, dst string) error {
	srcParent, srcBase := SplitPath(src)
	dstParent, dstBase := SplitPath(dst)

	pipe := c.rdb.TxPipeline()
	pipe.Rename(ctx, c.keys.Meta(src), c.keys.Meta(dst))
	pipe.Rename(ctx, c.keys.Data(src), c.keys.Data(dst))
	pipe.SRem(ctx, c.keys.Dir(srcParent), srcBase)
	pipe.SAdd(ctx, c.keys.Dir(dstParent), dstBase)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	// Best-effort rename xattr
	c.rdb.Rename(ctx, c.keys.Xattr(src), c.keys.Xattr(dst))
	return nil
}

// copyTree copies the directory src to dst, which must not exist yet.
func (c *Client) copyTree(ctx context.Context, src, dst string) error {
	if err := c.createDir(ctx, dst); err != nil {
		return err
	}
	children, err := c.ReadDir(ctx, src)
	if err != nil {
		return err
	}
	for _, child := range children {
		srcChild := JoinPath(src, child)
		dstChild := JoinPath(dst, child)

		meta, err := c.Stat(ctx, srcChild)
		if err != nil {
			return err
		}
		if meta == nil {
			continue
		}
		if meta.Type == TypeDir {
			if err := c.copyTree(ctx, srcChild, dstChild); err != nil {
				return err
			}
			continue
		}

		data, err := c.rdb.Get(ctx, c.keys.Data(srcChild)).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("rename: %w", err)
		}
		if err := c.putFile(ctx, "rename", dstChild, data); err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

func (c *Client) requireParentDir(ctx context.Context, op, path string) error {
	parent := ParentPath(path)
	isDir, err := c.IsDir(ctx, parent)
	if err != nil {
		return err
	}
	if !isDir {
		return fmt.Errorf("%s: %s: %w", op, parent, iofs.ErrNotExist)
	}
	return nil
}

func (c *Client) putFile(ctx context.Context, op, path, content string) error {
	parent, base := SplitPath(path)
	meta := NewFileMeta("0644", int64(len(content)))

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, c.keys.Data(path), content, 0)
	pipe.HSet(ctx, c.keys.Meta(path), meta.ToMap())
	pipe.SAdd(ctx, c.keys.Dir(parent), base)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
