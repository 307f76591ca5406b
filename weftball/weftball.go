// Package weftball reads and writes weftball archives: a tar or
// tar.gz bundle holding exactly three .weft files for one body --
// <body>_longitude.weft, <body>_latitude.weft, <body>_distance.weft --
// per spec.md §3's weftball invariant. Archive I/O is grounded on
// github.com/mholt/archiver/v3, the tar/gzip library the
// de-bkg-gognss pack repo wires for its own correction-file bundles;
// jpleph (the teacher) has no archive format of its own to draw from,
// since a DE kernel is always a single file.
package weftball

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"

	"github.com/jes5199/starloom-go/weft"
)

const (
	quantityLongitude = "longitude"
	quantityLatitude  = "latitude"
	quantityDistance  = "distance"
)

// Bundle is the three parsed members of one body's weftball.
type Bundle struct {
	Body      string
	Longitude *weft.File
	Latitude  *weft.File
	Distance  *weft.File
}

func memberName(body, quantity string) string {
	return fmt.Sprintf("%s_%s.weft", body, quantity)
}

func archiverFor(path string) archiver.Archiver {
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".tgz") {
		return archiver.NewTarGz()
	}
	return archiver.NewTar()
}

// Open reads a weftball archive (tar or tar.gz, detected from path's
// extension) and returns its parsed Bundle. Returns
// weft.ErrMissingMember if any of the three expected files is absent.
func Open(path string) (*Bundle, error) {
	dir, err := os.MkdirTemp("", "weftball-open-*")
	if err != nil {
		return nil, fmt.Errorf("weftball: creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := archiverFor(path).Unarchive(path, dir); err != nil {
		return nil, fmt.Errorf("weftball: unarchiving %s: %w", path, err)
	}

	members := map[string]*weft.File{}
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(p, ".weft") {
			return nil
		}
		fh, err := os.Open(p)
		if err != nil {
			return err
		}
		defer fh.Close()
		parsed, err := weft.Parse(fh)
		if err != nil {
			return fmt.Errorf("parsing member %s: %w", filepath.Base(p), err)
		}
		members[filepath.Base(p)] = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("weftball: reading extracted members of %s: %w", path, err)
	}
	return bundleFromMembers(path, members)
}

func bundleFromMembers(path string, members map[string]*weft.File) (*Bundle, error) {
	var body string
	for _, f := range members {
		body = f.Preamble.Body
		break
	}
	if body == "" {
		return nil, fmt.Errorf("weftball: %s has no .weft members: %w", path, weft.ErrMissingMember)
	}

	lon, ok := members[memberName(body, quantityLongitude)]
	if !ok {
		return nil, fmt.Errorf("weftball: %s missing %s: %w", path, memberName(body, quantityLongitude), weft.ErrMissingMember)
	}
	lat, ok := members[memberName(body, quantityLatitude)]
	if !ok {
		return nil, fmt.Errorf("weftball: %s missing %s: %w", path, memberName(body, quantityLatitude), weft.ErrMissingMember)
	}
	dist, ok := members[memberName(body, quantityDistance)]
	if !ok {
		return nil, fmt.Errorf("weftball: %s missing %s: %w", path, memberName(body, quantityDistance), weft.ErrMissingMember)
	}
	return &Bundle{Body: body, Longitude: lon, Latitude: lat, Distance: dist}, nil
}

// Write serializes a Bundle as a weftball archive to path, through a
// scratch directory so archiver/v3 -- which operates on file paths,
// not streams -- can do the tar/gzip framing.
func Write(path string, b *Bundle) error {
	dir, err := os.MkdirTemp("", "weftball-write-*")
	if err != nil {
		return fmt.Errorf("weftball: creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	members := []struct {
		name string
		file *weft.File
	}{
		{memberName(b.Body, quantityLongitude), b.Longitude},
		{memberName(b.Body, quantityLatitude), b.Latitude},
		{memberName(b.Body, quantityDistance), b.Distance},
	}
	var paths []string
	for _, m := range members {
		p := filepath.Join(dir, m.name)
		fh, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("weftball: staging %s: %w", m.name, err)
		}
		err = m.file.Write(fh)
		closeErr := fh.Close()
		if err != nil {
			return fmt.Errorf("weftball: serializing %s: %w", m.name, err)
		}
		if closeErr != nil {
			return fmt.Errorf("weftball: closing staged %s: %w", m.name, closeErr)
		}
		paths = append(paths, p)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("weftball: clearing existing %s: %w", path, err)
	}
	if err := archiverFor(path).Archive(paths, path); err != nil {
		return fmt.Errorf("weftball: archiving to %s: %w", path, err)
	}
	return nil
}
