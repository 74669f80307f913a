package pipeline

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
)

// dumpLines is how many lines of each dumped file are echoed to stderr
// (spec §4.5.9: "echo the first ~14 lines of each to stderr").
const dumpLines = 14

// debugDump writes the three artifacts spec §4.5.9 names into
// build/debug/ when a pipeline stage fails with DumpOnError set:
// last_source.ny, last_ir.ll, last_asm.s. ir and asm may be empty when
// the failing stage never reached emission. The uuid-named subdirectory
// (mirroring the teacher's storage/fast_uuid.go counter-seeded UUIDs,
// generalized here to google/uuid's random variant since dump
// directories, unlike storage row ids, need no monotonic ordering)
// keeps concurrent failing compiles in the same process from
// colliding.
func debugDump(root, source, ir, asm string) (string, error) {
	dir := filepath.Join(root, "build", "debug", uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	files := []struct {
		name, body string
	}{
		{"last_source.ny", source},
		{"last_ir.ll", ir},
		{"last_asm.s", asm},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
			return "", fmt.Errorf("pipeline: writing debug dump %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "[debug] %s:\n%s\n", f.name, headLines(f.body, dumpLines))
	}
	return dir, nil
}

func headLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// archiveDebugBundle xz-compresses dir into a tar.xz artifact next to
// it (spec §4.5.9's "emit debug artifact bundle" path), the same
// compression the teacher exposes through its own xz stream primitive
// (scm/streams.go's xz Declare) applied here to a whole directory tree
// instead of one user-supplied stream.
func archiveDebugBundle(dir string) (string, error) {
	out := dir + ".tar.xz"
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer f.Close()

	zw, err := xz.NewWriter(f)
	if err != nil {
		return "", err
	}
	defer zw.Close()

	tw := tar.NewWriter(zw)
	defer tw.Close()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(filepath.Dir(dir), path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = tw.Write(body)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
