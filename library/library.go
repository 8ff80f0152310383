package library

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/spf13/afero"
	"github.com/yhkl-dev/naviplayer/domain"
)

// Library provides the tracks of the playlist
type Library interface {
	Tracks() ([]domain.Track, error)
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
}

// LocalLibrary resolves command line arguments into tracks. Directories are
// scanned for audio files, m3u playlists are expanded, URLs and plain files
// are kept as given.
type LocalLibrary struct {
	fs    afero.Fs
	paths []string
}

func NewLocalLibrary(fs afero.Fs, paths ...string) *LocalLibrary {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LocalLibrary{
		fs:    fs,
		paths: paths,
	}
}

// Tracks returns every track it could resolve along with the errors of the
// paths it could not read
func (l *LocalLibrary) Tracks() ([]domain.Track, error) {
	var (
		tracks []domain.Track
		errs   []error
	)
	for _, p := range l.paths {
		found, err := l.resolve(p)
		tracks = append(tracks, found...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return tracks, errors.Combine(errs...)
}

func (l *LocalLibrary) resolve(p string) ([]domain.Track, error) {
	if isURL(p) {
		return []domain.Track{domain.NewTrack(p)}, nil
	}

	info, err := l.fs.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", p)
	}
	switch {
	case info.IsDir():
		return l.scan(p)
	case isPlaylist(p):
		return l.readPlaylist(p)
	}
	return []domain.Track{domain.NewTrack(p)}, nil
}

// scan walks dir in lexical order
func (l *LocalLibrary) scan(dir string) ([]domain.Track, error) {
	var tracks []domain.Track
	err := afero.Walk(l.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(path))] {
			tracks = append(tracks, domain.NewTrack(path))
		}
		return nil
	})
	return tracks, errors.Wrapf(err, "cannot scan %s", dir)
}

// readPlaylist expands an extended m3u file, entries are relative to its directory
func (l *LocalLibrary) readPlaylist(path string) ([]domain.Track, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read playlist %s", path)
	}

	var (
		tracks []domain.Track
		title  string
	)
	dir := filepath.Dir(path)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			if _, name, ok := strings.Cut(line, ","); ok {
				title = strings.TrimSpace(name)
			}
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		src := line
		if !isURL(src) && !filepath.IsAbs(src) {
			src = filepath.Join(dir, filepath.FromSlash(src))
		}
		track := domain.NewTrack(src)
		if title != "" {
			track.Title = title
			title = ""
		}
		tracks = append(tracks, track)
	}
	return tracks, errors.Wrapf(scanner.Err(), "cannot parse playlist %s", path)
}

func isURL(p string) bool {
	return strings.Contains(p, "://")
}

func isPlaylist(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".m3u" || ext == ".m3u8"
}
