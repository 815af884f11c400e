package xlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/safeopen"
	"go.uber.org/multierr"

	"github.com/benz9527/dsvisual/lib/infra"
)

var _ io.WriteCloser = (*fileLog)(nil)

// fileLog appends to a single log file, opened lazily beneath its directory.
type fileLog struct {
	lock        sync.Mutex
	filePath    string
	filename    string
	currentFile *os.File
	closed      bool
}

func newFileLog(pathToLog string) (*fileLog, error) {
	if len(pathToLog) == 0 {
		return nil, infra.NewErrorStack("[XLogger] empty log file path")
	}
	dir, name := filepath.Split(pathToLog)
	if len(name) == 0 {
		return nil, infra.NewErrorStack("[XLogger] log file <" + pathToLog + "> is a dir")
	}
	if len(dir) == 0 {
		dir = "."
	}
	return &fileLog{
		filePath: filepath.Clean(dir),
		filename: name,
	}, nil
}

func (log *fileLog) Write(p []byte) (int, error) {
	log.lock.Lock()
	defer log.lock.Unlock()

	if log.closed {
		return 0, io.EOF
	}
	if log.currentFile == nil {
		if err := log.openOrCreate(); err != nil {
			return 0, err
		}
	}
	return log.currentFile.Write(p)
}

func (log *fileLog) Sync() error {
	log.lock.Lock()
	defer log.lock.Unlock()

	if log.currentFile == nil {
		return nil
	}
	return log.currentFile.Sync()
}

func (log *fileLog) Close() error {
	log.lock.Lock()
	defer log.lock.Unlock()

	log.closed = true
	if log.currentFile == nil {
		return nil
	}
	var merr error
	merr = multierr.Append(merr, log.currentFile.Sync())
	merr = multierr.Append(merr, log.currentFile.Close())
	log.currentFile = nil
	return merr
}

func (log *fileLog) openOrCreate() error {
	if err := os.MkdirAll(log.filePath, 0o755); err != nil {
		return infra.WrapErrorStackWithMessage(err, "unable to create log dir: "+log.filePath)
	}
	f, err := safeopen.OpenFileBeneath(log.filePath, log.filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "unable to open log file: "+filepath.Join(log.filePath, log.filename))
	}
	log.currentFile = f
	return nil
}
