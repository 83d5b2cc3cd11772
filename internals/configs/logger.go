package configs

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger points the standard logger at stdout and a rotating
// LOG_DIR/app.log (10 MB, 5 backups). It returns the writer so the HTTP
// access log can share it, and a closer for the file. An empty LOG_DIR logs
// to stdout only.
func SetupLogger(s *Settings) (io.Writer, io.Closer, error) {
	if s.LogDir == "" {
		return os.Stdout, nopCloser{}, nil
	}
	if err := os.MkdirAll(s.LogDir, 0o755); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(s.LogDir, "app.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
	}
	w := io.MultiWriter(os.Stdout, file)

	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("dnd_character_builder ")
	return w, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
