package remote

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// FileOptions configures File.
type FileOptions struct {
	// Contents is the desired content. Nil only ensures the file exists.
	Contents []byte
	UseSudo  bool
	Owner    string
	Mode     os.FileMode
}

// DirOptions configures Directory.
type DirOptions struct {
	UseSudo bool
	Owner   string
	Mode    os.FileMode
}

// File ensures path exists and, when Contents is set, holds exactly those
// bytes. Uploads happen only when the remote hash differs. It reports
// whether the file changed.
func (h *Host) File(ctx context.Context, path string, opts FileOptions) (bool, error) {
	changed := false

	if opts.Contents == nil {
		exists, err := h.IsFile(ctx, path, opts.UseSudo)
		if err != nil {
			return false, err
		}
		if !exists {
			if _, err := h.mustRun(ctx, "touch "+Quote(path), opts.UseSudo); err != nil {
				return false, fmt.Errorf("failed to create %s: %w", path, err)
			}
			changed = true
		}
	} else {
		sum := sha256.Sum256(opts.Contents)
		want := hex.EncodeToString(sum[:])

		have, err := h.SHA256(ctx, path, opts.UseSudo)
		if err != nil {
			return false, err
		}
		if have != want {
			if err := h.upload(ctx, path, opts.Contents, opts.UseSudo); err != nil {
				return false, err
			}
			changed = true
		}
	}

	if err := h.applyOwnership(ctx, path, opts.Owner, opts.Mode, opts.UseSudo); err != nil {
		return changed, err
	}
	return changed, nil
}

// upload writes contents through a temporary file so readers never observe
// a partial write.
func (h *Host) upload(ctx context.Context, path string, contents []byte, useSudo bool) error {
	tmp := path + ".devprov.tmp"
	encoded := base64.StdEncoding.EncodeToString(contents)
	cmd := fmt.Sprintf("printf %%s %s | base64 -d > %s && mv -f %s %s",
		Quote(encoded), Quote(tmp), Quote(tmp), Quote(path))
	if _, err := h.mustRun(ctx, cmd, useSudo); err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

// SHA256 returns the hex digest of a remote file, or "" when it does not exist.
func (h *Host) SHA256(ctx context.Context, path string, useSudo bool) (string, error) {
	result, err := h.run(ctx, "sha256sum "+Quote(path)+" 2>/dev/null", useSudo)
	if err != nil {
		return "", err
	}
	if !result.OK() {
		return "", nil
	}
	fields := strings.Fields(result.Output)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// Directory ensures path exists as a directory and reports whether it was created.
func (h *Host) Directory(ctx context.Context, path string, opts DirOptions) (bool, error) {
	exists, err := h.IsDir(ctx, path, opts.UseSudo)
	if err != nil {
		return false, err
	}

	changed := false
	if !exists {
		if _, err := h.mustRun(ctx, "mkdir -p "+Quote(path), opts.UseSudo); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", path, err)
		}
		changed = true
	}

	if err := h.applyOwnership(ctx, path, opts.Owner, opts.Mode, opts.UseSudo); err != nil {
		return changed, err
	}
	return changed, nil
}

// Copy copies src to dst on the target.
func (h *Host) Copy(ctx context.Context, src, dst string, recursive, useSudo bool) error {
	flag := ""
	if recursive {
		flag = "-r "
	}
	if _, err := h.mustRun(ctx, fmt.Sprintf("cp %s%s %s", flag, Quote(src), Quote(dst)), useSudo); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// IsFile reports whether path is a regular file.
func (h *Host) IsFile(ctx context.Context, path string, useSudo bool) (bool, error) {
	return h.test(ctx, "test -f "+Quote(path), useSudo)
}

// IsDir reports whether path is a directory.
func (h *Host) IsDir(ctx context.Context, path string, useSudo bool) (bool, error) {
	return h.test(ctx, "test -d "+Quote(path), useSudo)
}

// IsLink reports whether path is a symbolic link.
func (h *Host) IsLink(ctx context.Context, path string, useSudo bool) (bool, error) {
	return h.test(ctx, "test -L "+Quote(path), useSudo)
}

// Symlink creates dst pointing at src.
func (h *Host) Symlink(ctx context.Context, src, dst string, useSudo bool) error {
	if _, err := h.mustRun(ctx, fmt.Sprintf("ln -s %s %s", Quote(src), Quote(dst)), useSudo); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", dst, src, err)
	}
	return nil
}

// EnsureSymlink creates dst pointing at src unless dst is already a link.
func (h *Host) EnsureSymlink(ctx context.Context, src, dst string, useSudo bool) (bool, error) {
	linked, err := h.IsLink(ctx, dst, useSudo)
	if err != nil {
		return false, err
	}
	if linked {
		return false, nil
	}
	if err := h.Symlink(ctx, src, dst, useSudo); err != nil {
		return false, err
	}
	return true, nil
}

func (h *Host) applyOwnership(ctx context.Context, path, owner string, mode os.FileMode, useSudo bool) error {
	if owner != "" {
		if _, err := h.mustRun(ctx, fmt.Sprintf("chown %s %s", Quote(owner), Quote(path)), useSudo); err != nil {
			return fmt.Errorf("failed to set owner of %s: %w", path, err)
		}
	}
	if mode != 0 {
		if _, err := h.mustRun(ctx, fmt.Sprintf("chmod %04o %s", mode.Perm(), Quote(path)), useSudo); err != nil {
			return fmt.Errorf("failed to set mode of %s: %w", path, err)
		}
	}
	return nil
}
