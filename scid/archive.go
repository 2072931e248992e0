package scid

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// UnpackXZ decompresses an .scid.xz archive to dst. When dst is empty
// the .xz suffix is stripped from src. Returns the written path.
func UnpackXZ(src, dst string) (string, error) {
	if dst == "" {
		dst = strings.TrimSuffix(src, ".xz")
		if dst == src {
			return "", fmt.Errorf("unpack %s: no .xz suffix and no destination given", src)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("unpack open %s: %w: %v", src, ErrIO, err)
	}
	defer in.Close()

	zr, err := xz.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("unpack %s: %w: %v", src, ErrInvalidFormat, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("unpack create %s: %w: %v", dst, ErrIO, err)
	}

	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("unpack %s: %w: %v", src, ErrIO, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("unpack close %s: %w: %v", dst, ErrIO, err)
	}
	return dst, nil
}
